package wsview

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

type Conn interface {
	WriteJSON(v any) error
}

// Observer streams session events to a client as JSON messages. After the
// first failed write it drops every further message and reports the error
// from Err.
type Observer struct {
	mu     sync.Mutex
	conn   Conn
	logger *logrus.Entry
	err    error
}

func NewObserver(conn Conn, logger *logrus.Entry) *Observer {
	return &Observer{
		conn:   conn,
		logger: logger,
	}
}

func (o *Observer) send(m Message) {
	if o.err != nil {
		return
	}
	if err := o.conn.WriteJSON(m); err != nil {
		o.err = err
		o.logger.WithError(err).Debug("unable to write message")
	}
}

// [Observer] implements [game.Observer]
func (o *Observer) GameStarted(params game.Params) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.send(Message{Type: MessageStart, Params: &params})
}

func (o *Observer) CellChanged(pos board.Coord, cell board.Cell, over bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	dto := NewCellDTO(pos, cell, over)
	o.send(Message{Type: MessageCell, Cell: &dto})
}

func (o *Observer) StatusChanged(status game.Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	dto := NewStatusDTO(status)
	o.send(Message{Type: MessageStatus, Status: &dto})
}

func (o *Observer) GameOver(result game.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	dto := NewResultDTO(result)
	o.send(Message{Type: MessageOver, Result: &dto})
}

func (o *Observer) SendError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.send(Message{Type: MessageError, Error: err.Error()})
}

// Err returns the write error that stopped the stream, if any.
func (o *Observer) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
