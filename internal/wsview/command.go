package wsview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

type wsCommand string

const (
	wsNoop wsCommand = "g"
	wsOpen wsCommand = "o"
	wsFlag wsCommand = "f"
	wsNew  wsCommand = "n"
	wsSync wsCommand = "s"
)

var ErrInvalidCommand = errors.New("invalid command")

type executor struct {
	session  *game.Session
	observer *Observer
}

func (e executor) openCell(args []string) error {
	row, col, err := parseRowCol(args)
	if err != nil {
		return err
	}
	return e.session.Reveal(row, col)
}

func (e executor) flagCell(args []string) error {
	row, col, err := parseRowCol(args)
	if err != nil {
		return err
	}
	return e.session.ToggleFlag(row, col)
}

// newGame restarts with the current params, or with the preset named by
// the first argument.
func (e executor) newGame(args []string) error {
	params := e.session.Params()
	if len(args) > 0 {
		var ok bool
		if params, ok = game.ParseDifficulty(args[0]); !ok {
			return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidCommand, args[0])
		}
	}
	return e.session.Restart(params, e.observer)
}

// sync resends every cell the client can see, then the status. It lets a
// client that lost its state redraw the board.
func (e executor) sync() {
	over := e.session.Over()
	e.session.Inspect(func(b *board.Board) {
		for r := range b.Rows() {
			for c := range b.Cols() {
				cell, _ := b.Cell(r, c)
				if cell.IsRevealed() || cell.IsFlagged() {
					e.observer.CellChanged(board.Coord{Row: r, Col: c}, cell, over)
				}
			}
		}
	})
	e.observer.StatusChanged(e.session.Status())
}

func (e executor) execute(query string) error {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	switch cmd {
	case wsNoop:
		e.observer.StatusChanged(e.session.Status())
		return nil
	case wsOpen:
		return e.openCell(args)
	case wsFlag:
		return e.flagCell(args)
	case wsNew:
		return e.newGame(args)
	case wsSync:
		e.sync()
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, cmd)
	}
}

type Reader interface {
	ReadMessage() (messageType int, p []byte, err error)
}

// Run executes the commands read from conn until the client goes away or
// a message can no longer be delivered. Each text message may hold several
// commands, one per line. A failed command is reported to the client and
// does not end the loop.
func Run(conn Reader, s *game.Session, o *Observer) error {
	e := executor{session: s, observer: o}
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		message := strings.TrimSpace(string(buf))
		for _, line := range strings.Split(message, "\n") {
			if err := e.execute(strings.TrimSpace(line)); err != nil {
				o.SendError(err)
			}
		}
		if err := o.Err(); err != nil {
			return err
		}
	}
}

func parseRowCol(args []string) (row int, col int, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("%w: expected row and column", ErrInvalidCommand)
		return
	}
	if row, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("%w: row must be an int", ErrInvalidCommand)
		return
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("%w: column must be an int", ErrInvalidCommand)
		return
	}
	return
}
