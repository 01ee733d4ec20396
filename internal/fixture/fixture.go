// Package fixture loads fixed boards from CSV files: one row of the board
// per line, 0 for an empty cell, 1 for a mine and 2 for a treasure.
package fixture

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

const (
	empty    = 0
	mine     = 1
	treasure = 2
)

var ErrMalformed = errors.New("malformed board file")

// Layout is a parsed board. Mines and Treasures are in row-major order.
type Layout struct {
	Rows, Cols int
	Mines      []board.Coord
	Treasures  []board.Coord
}

func Parse(r io.Reader) (*Layout, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformed)
	}

	l := &Layout{Rows: len(records), Cols: len(records[0])}
	for r, record := range records {
		for c, field := range record {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: cell %d:%d is not a number", ErrMalformed, r, c)
			}
			switch v {
			case empty:
			case mine:
				l.Mines = append(l.Mines, board.Coord{Row: r, Col: c})
			case treasure:
				l.Treasures = append(l.Treasures, board.Coord{Row: r, Col: c})
			default:
				return nil, fmt.Errorf("%w: cell %d:%d has unknown value %d", ErrMalformed, r, c, v)
			}
		}
	}
	return l, nil
}

func Load(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open board file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (l *Layout) Params() game.Params {
	return game.Params{
		Rows:      l.Rows,
		Cols:      l.Cols,
		Mines:     len(l.Mines),
		Treasures: len(l.Treasures),
	}
}

// Board builds a fixed-mode board from the layout. The board still needs a
// call to Setup.
func (l *Layout) Board(opts ...board.Option) (*board.Board, error) {
	return board.NewFixed(l.Rows, l.Cols, l.Mines, l.Treasures, opts...)
}

// SessionOptions returns the options that make a session replay this
// layout.
func (l *Layout) SessionOptions() []game.SessionOption {
	return []game.SessionOption{game.WithPlacements(l.Mines, l.Treasures)}
}
