package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/game"
)

func Presets(logger *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		SendJSONOrLog(w, logger, game.Presets())
	}
}
