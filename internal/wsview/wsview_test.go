package wsview

import (
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

// mine in one corner, treasure in the opposite one
var (
	smallParams    = game.Params{Rows: 3, Cols: 3, Mines: 1, Treasures: 1}
	smallMines     = []board.Coord{{Row: 0, Col: 0}}
	smallTreasures = []board.Coord{{Row: 2, Col: 2}}
)

func nullEntry() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

type frame struct {
	mt   int
	data string
}

type fakeConn struct {
	mu       sync.Mutex
	messages []Message
	inbox    []frame
	fail     error
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.messages = append(c.messages, v.(Message))
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inbox) == 0 {
		return 0, nil, io.EOF
	}
	f := c.inbox[0]
	c.inbox = c.inbox[1:]
	return f.mt, []byte(f.data), nil
}

func (c *fakeConn) send(lines ...string) {
	for _, line := range lines {
		c.inbox = append(c.inbox, frame{websocket.TextMessage, line})
	}
}

func (c *fakeConn) types() []MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]MessageType, len(c.messages))
	for i, m := range c.messages {
		types[i] = m.Type
	}
	return types
}

func play(t *testing.T, conn *fakeConn, opts ...game.SessionOption) (*game.Session, error) {
	t.Helper()
	observer := NewObserver(conn, nullEntry())
	if len(opts) == 0 {
		opts = []game.SessionOption{game.WithPlacements(smallMines, smallTreasures)}
	}
	s, err := game.NewSession(smallParams, observer, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, Run(conn, s, observer)
}

func TestNewCellDTO(t *testing.T) {
	b, err := board.NewFixed(3, 3, smallMines, smallTreasures)
	require.NoError(t, err)
	require.NoError(t, b.Setup())

	cellAt := func(row, col int) board.Cell {
		cell, err := b.Cell(row, col)
		require.NoError(t, err)
		return cell
	}

	hidden := NewCellDTO(board.Coord{Row: 0, Col: 0}, cellAt(0, 0), false)
	assert.Equal(t, CellDTO{Row: 0, Col: 0, State: CellHidden}, hidden)

	_, err = b.ToggleFlagAt(1, 1)
	require.NoError(t, err)
	assert.Equal(t, CellFlagged, NewCellDTO(board.Coord{Row: 1, Col: 1}, cellAt(1, 1), false).State)
	assert.Equal(t, CellWrongFlag, NewCellDTO(board.Coord{Row: 1, Col: 1}, cellAt(1, 1), true).State)

	_, _, err = b.RevealAt(0, 1)
	require.NoError(t, err)
	assert.Equal(t, CellDTO{Row: 0, Col: 1, State: CellOpen, Adjacent: 1}, NewCellDTO(board.Coord{Row: 0, Col: 1}, cellAt(0, 1), false))

	b.RevealHazards()
	assert.Equal(t, CellMine, NewCellDTO(board.Coord{Row: 0, Col: 0}, cellAt(0, 0), true).State)
	assert.Equal(t, CellTreasure, NewCellDTO(board.Coord{Row: 2, Col: 2}, cellAt(2, 2), true).State)
}

func TestRunClearsBoard(t *testing.T) {
	conn := &fakeConn{}
	conn.send("o 0 2")

	_, err := play(t, conn)
	assert.ErrorIs(t, err, io.EOF)

	types := conn.types()
	require.Len(t, types, 13)
	assert.Equal(t, []MessageType{MessageStart, MessageStatus}, types[:2])
	for _, mt := range types[2:11] {
		assert.Equal(t, MessageCell, mt)
	}
	assert.Equal(t, []MessageType{MessageStatus, MessageOver}, types[11:])

	over := conn.messages[12].Result
	require.NotNil(t, over)
	assert.True(t, over.Won)
	assert.Equal(t, "cleared", over.Outcome)
	assert.Equal(t, 7, over.Revealed)
}

func TestRunMineShowsWrongFlags(t *testing.T) {
	conn := &fakeConn{}
	conn.send("f 1 1\no 0 0")

	_, err := play(t, conn)
	assert.ErrorIs(t, err, io.EOF)

	require.Equal(t, []MessageType{
		MessageStart, MessageStatus,
		MessageCell, MessageStatus,
		MessageCell, MessageCell, MessageCell, MessageStatus, MessageOver,
	}, conn.types())

	assert.Equal(t, CellDTO{Row: 1, Col: 1, State: CellFlagged}, *conn.messages[2].Cell)
	assert.Equal(t, StatusDTO{MinesLeft: 0, Flags: 1, Elapsed: "00:00:00"}, *conn.messages[3].Status)
	assert.Equal(t, CellDTO{Row: 0, Col: 0, State: CellMine}, *conn.messages[4].Cell)
	assert.Equal(t, CellDTO{Row: 2, Col: 2, State: CellTreasure}, *conn.messages[5].Cell)
	assert.Equal(t, CellDTO{Row: 1, Col: 1, State: CellWrongFlag}, *conn.messages[6].Cell)
	assert.False(t, conn.messages[8].Result.Won)
	assert.Equal(t, "mine", conn.messages[8].Result.Outcome)
}

func TestRunUnflagIsNotWrongFlag(t *testing.T) {
	conn := &fakeConn{}
	conn.send("f 1 1", "f 1 1", "f 1 1")

	_, err := play(t, conn)
	assert.ErrorIs(t, err, io.EOF)

	var states []CellState
	for _, m := range conn.messages {
		if m.Cell != nil {
			states = append(states, m.Cell.State)
		}
	}
	assert.Equal(t, []CellState{CellFlagged, CellHidden, CellFlagged}, states)
}

func cellStates(messages []Message) map[board.Coord]CellState {
	states := make(map[board.Coord]CellState)
	for _, m := range messages {
		if m.Cell != nil {
			states[board.Coord{Row: m.Cell.Row, Col: m.Cell.Col}] = m.Cell.State
		}
	}
	return states
}

func TestRunSyncKeepsFlags(t *testing.T) {
	conn := &fakeConn{}
	conn.send("f 1 1", "o 0 1")

	s, err := play(t, conn)
	assert.ErrorIs(t, err, io.EOF)
	require.False(t, s.Over())

	before := len(conn.messages)
	conn.send("s")
	require.ErrorIs(t, Run(conn, s, NewObserver(conn, nullEntry())), io.EOF)

	resent := conn.messages[before:]
	require.Len(t, resent, 3)
	assert.Equal(t, map[board.Coord]CellState{
		{Row: 0, Col: 1}: CellOpen,
		{Row: 1, Col: 1}: CellFlagged,
	}, cellStates(resent))
	assert.Equal(t, MessageStatus, resent[2].Type)
	assert.Equal(t, 1, resent[2].Status.Flags)
}

func TestRunSyncAfterGameOver(t *testing.T) {
	conn := &fakeConn{}
	conn.send("f 1 1\nf 0 0\no 2 2", "s")

	s, err := play(t, conn)
	assert.ErrorIs(t, err, io.EOF)
	require.True(t, s.Over())

	last := conn.messages[len(conn.messages)-4:]
	assert.Equal(t, map[board.Coord]CellState{
		{Row: 0, Col: 0}: CellFlagged,
		{Row: 1, Col: 1}: CellWrongFlag,
		{Row: 2, Col: 2}: CellTreasure,
	}, cellStates(last))
	assert.Equal(t, MessageStatus, last[3].Type)
}

func TestRunReportsBadCommands(t *testing.T) {
	conn := &fakeConn{}
	conn.send("x", "o 9 9", "o a b", "f 1", "n nightmare", "", "g")

	_, err := play(t, conn)
	assert.ErrorIs(t, err, io.EOF)

	var errs []string
	for _, m := range conn.messages {
		if m.Type == MessageError {
			errs = append(errs, m.Error)
		}
	}
	require.Len(t, errs, 5)
	assert.Contains(t, errs[0], `unknown command "x"`)
	assert.Contains(t, errs[1], "(9,9)")
	assert.Contains(t, errs[2], "row must be an int")
	assert.Contains(t, errs[3], "expected row and column")
	assert.Contains(t, errs[4], `unknown difficulty "nightmare"`)

	assert.Equal(t, MessageStatus, conn.messages[len(conn.messages)-1].Type)
}

func TestRunNewGame(t *testing.T) {
	conn := &fakeConn{}
	conn.send("o 0 0", "n")

	s, err := play(t, conn)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, s.Over())

	types := conn.types()
	assert.Equal(t, []MessageType{MessageStart, MessageStatus}, types[len(types)-2:])
}

func TestRunNewGameWithPreset(t *testing.T) {
	conn := &fakeConn{}
	conn.send("n expert")

	s, err := play(t, conn, game.WithRand(rand.New(rand.NewPCG(1, 2))))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, game.Expert, s.Params())

	start := conn.messages[2]
	require.Equal(t, MessageStart, start.Type)
	assert.Equal(t, game.Expert, *start.Params)
}

func TestRunStopsOnBinaryMessage(t *testing.T) {
	conn := &fakeConn{}
	conn.inbox = []frame{{websocket.BinaryMessage, "o 0 2"}, {websocket.TextMessage, "o 0 2"}}

	s, err := play(t, conn)
	assert.NoError(t, err)
	assert.False(t, s.Over())
}

func TestRunStopsOnWriteError(t *testing.T) {
	broken := errors.New("broken pipe")
	conn := &fakeConn{fail: broken}
	conn.send("g", "o 0 2")

	s, err := play(t, conn)
	assert.ErrorIs(t, err, broken)
	assert.False(t, s.Over())
	assert.Empty(t, conn.messages)
}

func TestHandler(t *testing.T) {
	h := NewHandler(websocket.Upgrader{}, smallParams, nullEntry(), game.WithPlacements(smallMines, smallTreasures))
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsUrl := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("plays a game", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsUrl, nil)
		require.NoError(t, err)
		defer conn.Close()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

		var m Message
		require.NoError(t, conn.ReadJSON(&m))
		assert.Equal(t, MessageStart, m.Type)
		assert.Equal(t, smallParams, *m.Params)
		require.NoError(t, conn.ReadJSON(&m))
		assert.Equal(t, MessageStatus, m.Type)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 0 2")))
		for range 11 {
			m = Message{}
			require.NoError(t, conn.ReadJSON(&m))
		}
		assert.Equal(t, MessageOver, m.Type)
		assert.True(t, m.Result.Won)
	})

	t.Run("rejects bad params", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsUrl+"?rows=0&cols=3&mines=1", nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects oversized board", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsUrl+"?rows=200000&cols=200000&mines=1", nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects unknown difficulty", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsUrl+"?difficulty=nightmare", nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
