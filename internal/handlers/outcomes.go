package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/game"
	"github.com/vancomm/treasure-sweeper/internal/records"
)

type Tallier interface {
	Tally(ctx context.Context, params game.Params) (records.Tally, error)
	Tallies(ctx context.Context, filter records.TallyFilter) ([]records.Tally, error)
}

// Outcomes serves the tally of one board shape when the query names one,
// and of every recorded shape otherwise.
func Outcomes(store Tallier, logger *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if len(query) == 0 {
			tallies, err := store.Tallies(r.Context(), records.TallyFilter{})
			if err != nil {
				logger.WithError(err).Error("could not fetch tallies")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			SendJSONOrLog(w, logger, tallies)
			return
		}

		params, err := ParseParams(query, game.Beginner)
		if err != nil {
			SendErrorOrLog(w, logger, http.StatusBadRequest, err)
			return
		}
		tally, err := store.Tally(r.Context(), params)
		if err != nil {
			logger.WithError(err).Error("could not fetch tally")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		SendJSONOrLog(w, logger, tally)
	}
}
