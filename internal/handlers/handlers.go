package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func SendJSONOrLog(w http.ResponseWriter, logger *logrus.Entry, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"data":  v,
			"error": err,
		}).Error("failed to send data")
	}
}

// SendErrorOrLog responds with status and a JSON body holding e.
func SendErrorOrLog(w http.ResponseWriter, logger *logrus.Entry, status int, e error) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(wrapError(e))
	if err != nil {
		logger.WithFields(logrus.Fields{
			"sent_error": e,
			"error":      err,
		}).Error("failed to send error message")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}
