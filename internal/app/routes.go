package app

import (
	"net/http"

	"github.com/vancomm/treasure-sweeper/internal/game"
	"github.com/vancomm/treasure-sweeper/internal/handlers"
	"github.com/vancomm/treasure-sweeper/internal/middleware"
	"github.com/vancomm/treasure-sweeper/internal/wsview"
)

func (a *App) sessionOptions() []game.SessionOption {
	options := []game.SessionOption{
		game.WithTickInterval(a.config.TickInterval.Duration),
	}
	if a.store != nil {
		options = append(options, game.WithRecorder(a.store))
	}
	return options
}

func (a *App) fallbackParams() game.Params {
	params, ok := game.ParseDifficulty(a.config.Difficulty)
	if !ok {
		a.logger.WithField("difficulty", a.config.Difficulty).
			Warn("unknown difficulty, falling back to beginner")
	}
	return params
}

// Handler builds the routes with their middleware.
func (a *App) Handler() http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /presets", handlers.Presets(a.logger))
	router.Handle("GET /play", wsview.NewHandler(
		a.config.Upgrader(),
		a.fallbackParams(),
		a.logger.WithField("component", "wsview"),
		a.sessionOptions()...,
	))
	if a.store != nil {
		router.HandleFunc("GET /outcomes", handlers.Outcomes(a.store, a.logger))
	}

	return middleware.Wrap(
		router,
		middleware.Recover(a.logger),
		middleware.Logging(a.logger),
		middleware.Cors(a.config.AllowedOrigins...),
	)
}
