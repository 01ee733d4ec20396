package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/treasure-sweeper/internal/config"
	"github.com/vancomm/treasure-sweeper/internal/records"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	config config.Config
	logger *logrus.Entry
	store  *records.Store
}

func New(config config.Config, logger *logrus.Entry) *App {
	return &App{
		config: config,
		logger: logger,
	}
}

// Start connects the outcome log, if one is configured, and serves until
// ctx is done or the server fails.
func (a *App) Start(ctx context.Context) error {
	if dbUrl, ok := a.config.DbUrl(); ok {
		store, err := records.Connect(ctx, dbUrl, a.logger.WithField("component", "records"))
		if err != nil {
			return fmt.Errorf("unable to connect to outcome log: %w", err)
		}
		a.store = store
		defer store.Close()
	} else {
		a.logger.Warn("no database configured, outcomes will not be recorded")
	}

	server := &http.Server{
		Addr:              a.config.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.logger.Infof("ready to serve @ %s", a.config.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
