package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/board"
)

const recordTimeout = 10 * time.Second

// Session owns one board and the observer presenting it. It serializes
// every board operation and every notification, so front ends may call it
// from several goroutines.
type Session struct {
	mu sync.Mutex

	params   Params
	board    *board.Board
	observer Observer

	rnd       *rand.Rand
	fixed     bool
	mines     []board.Coord
	treasures []board.Coord
	recorder  Recorder
	interval  time.Duration
	logger    *logrus.Entry
	now       func() time.Time

	started time.Time
	ended   time.Time
	over    bool
	result  Result
	ticker  *ticker
	gen     int
}

type SessionOption func(*Session)

func WithRand(r *rand.Rand) SessionOption {
	return func(s *Session) {
		s.rnd = r
	}
}

// WithPlacements makes every game of the session use the given mine and
// treasure positions instead of random ones.
func WithPlacements(mines, treasures []board.Coord) SessionOption {
	return func(s *Session) {
		s.fixed = true
		s.mines = append([]board.Coord{}, mines...)
		s.treasures = append([]board.Coord{}, treasures...)
	}
}

func WithRecorder(r Recorder) SessionOption {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithTickInterval enables periodic status notifications. Zero disables
// them.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		s.interval = d
	}
}

func WithLogger(l *logrus.Entry) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

func NewSession(params Params, observer Observer, opts ...SessionOption) (*Session, error) {
	s := &Session{
		now:    time.Now,
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Restart(params, observer); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) newBoard(params Params) (*board.Board, error) {
	var opts []board.Option
	if s.rnd != nil {
		opts = append(opts, board.WithRand(s.rnd))
	}
	if s.fixed {
		opts = append(opts, board.WithPlacements(s.mines, s.treasures))
	}
	b, err := board.New(params.Rows, params.Cols, params.Mines, params.Treasures, opts...)
	if err != nil {
		return nil, err
	}
	if err := b.Setup(); err != nil {
		return nil, err
	}
	return b, nil
}

// Restart cancels the pending ticker and replaces the board and the
// observer with fresh ones. On error the session is left as it was.
func (s *Session) Restart(params Params, observer Observer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.newBoard(params)
	if err != nil {
		return fmt.Errorf("unable to set up %s board: %w", params, err)
	}

	s.ticker.stop()
	s.ticker = nil
	s.gen++

	s.params = params
	s.board = b
	s.observer = observer
	s.started, s.ended = time.Time{}, time.Time{}
	s.over = false
	s.result = Result{}

	s.logger.WithFields(logrus.Fields{
		"params": params.String(),
		"fixed":  b.Fixed(),
	}).Debug("new game")

	s.observer.GameStarted(params)
	s.observer.StatusChanged(s.status())

	if s.interval > 0 {
		gen := s.gen
		s.ticker = startTicker(s.interval, func() { s.tick(gen) })
	}
	return nil
}

func (s *Session) tick(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.over {
		return
	}
	s.observer.StatusChanged(s.status())
}

// Close stops the ticker. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticker.stop()
	s.ticker = nil
	s.gen++
}

// Reveal opens the cell at row, col. Moves after the game has ended are
// ignored.
func (s *Session) Reveal(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return nil
	}

	update, outcome, err := s.board.RevealAt(row, col)
	if err != nil {
		return err
	}
	if outcome == board.NoOp {
		return nil
	}
	if s.started.IsZero() {
		s.started = s.now()
	}

	s.notifyCells(update)
	if outcome.GameOver() {
		s.finish(outcome)
	}
	return nil
}

// ToggleFlag flags or unflags the cell at row, col.
func (s *Session) ToggleFlag(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return nil
	}

	changed, err := s.board.ToggleFlagAt(row, col)
	if err != nil || !changed {
		return err
	}

	s.notifyCells(board.Update{{Row: row, Col: col}})
	s.observer.StatusChanged(s.status())
	return nil
}

func (s *Session) notifyCells(update board.Update) {
	for _, p := range update {
		cell, _ := s.board.Cell(p.Row, p.Col)
		s.observer.CellChanged(p, cell, s.over)
	}
}

func (s *Session) finish(outcome board.Outcome) {
	s.over = true
	s.ended = s.now()
	s.ticker.stop()
	s.ticker = nil

	s.notifyCells(s.board.RevealHazards())
	for r := range s.board.Rows() {
		for c := range s.board.Cols() {
			if cell, _ := s.board.Cell(r, c); cell.WrongFlag() {
				s.observer.CellChanged(board.Coord{Row: r, Col: c}, cell, true)
			}
		}
	}

	s.result = Result{
		Params:   s.params,
		Won:      outcome.Won(),
		Outcome:  outcome,
		Revealed: s.board.RevealedSafeCount(),
		Elapsed:  s.elapsed(),
		EndedAt:  s.ended,
	}

	s.logger.WithFields(logrus.Fields{
		"params":  s.params.String(),
		"outcome": outcome.String(),
		"elapsed": FormatElapsed(s.result.Elapsed),
	}).Info("game over")

	s.observer.StatusChanged(s.status())
	s.observer.GameOver(s.result)

	if s.recorder != nil {
		go s.record(s.result)
	}
}

func (s *Session) record(result Result) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.recorder.Record(ctx, result); err != nil {
		s.logger.WithError(err).Error("unable to record game result")
	}
}

func (s *Session) elapsed() time.Duration {
	switch {
	case s.started.IsZero():
		return 0
	case s.over:
		return s.ended.Sub(s.started)
	default:
		return s.now().Sub(s.started)
	}
}

func (s *Session) status() Status {
	return Status{
		MinesLeft: s.board.MineCount() - s.board.FlagCount(),
		Flags:     s.board.FlagCount(),
		Elapsed:   s.elapsed(),
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Result returns the result of the finished game, if any.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.over
}

// Inspect runs fn with the board while holding the session lock. fn must
// not call back into the session.
func (s *Session) Inspect(fn func(b *board.Board)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.board)
}
