// Package wsview plays sessions over websocket connections. Every
// connection gets its own session; nothing is shared between clients.
package wsview

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/game"
	"github.com/vancomm/treasure-sweeper/internal/handlers"
)

const writeWait = 10 * time.Second

type deadlineConn struct {
	*websocket.Conn
}

func (c deadlineConn) WriteJSON(v any) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteJSON(v)
}

type Handler struct {
	upgrader websocket.Upgrader
	fallback game.Params
	options  []game.SessionOption
	logger   *logrus.Entry
}

// NewHandler serves games with the params from the request query, or
// fallback when the query is empty. options apply to every session.
func NewHandler(
	upgrader websocket.Upgrader,
	fallback game.Params,
	logger *logrus.Entry,
	options ...game.SessionOption,
) *Handler {
	return &Handler{
		upgrader: upgrader,
		fallback: fallback,
		options:  options,
		logger:   logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := handlers.ParseParams(r.URL.Query(), h.fallback)
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		h.logger.WithError(err).Debug("invalid game params")
		handlers.SendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		h.logger.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()

	// hijacked connections outlive server shutdown unless closed here
	stop := context.AfterFunc(r.Context(), func() { conn.Close() })
	defer stop()

	logger := h.logger.WithField("remote_addr", r.RemoteAddr)
	observer := NewObserver(deadlineConn{conn}, logger)

	options := append([]game.SessionOption{game.WithLogger(logger)}, h.options...)
	session, err := game.NewSession(params, observer, options...)
	if err != nil {
		logger.WithError(err).Error("unable to start session")
		observer.SendError(err)
		return
	}
	defer session.Close()

	logger.Debug("established WS connection")

	err = Run(conn, session, observer)
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.WithError(err).Warn("error in ws loop")
		return
	}
	logger.Debug("closed WS connection")
}
