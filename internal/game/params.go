package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vancomm/treasure-sweeper/internal/board"
)

type Params struct {
	Rows      int `schema:"rows,required" json:"rows"`
	Cols      int `schema:"cols,required" json:"cols"`
	Mines     int `schema:"mines,required" json:"mines"`
	Treasures int `schema:"treasures" json:"treasures"`
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d(%d+%d)", p.Rows, p.Cols, p.Mines, p.Treasures)
}

func (p Params) Unpack() (rows, cols, mines, treasures int) {
	return p.Rows, p.Cols, p.Mines, p.Treasures
}

// Largest board a client may ask for.
const (
	MaxRows = 100
	MaxCols = 100
)

var ErrTooLarge = errors.New("board too large")

// Validate reports whether a random board can be built from p and fits
// within MaxRows by MaxCols.
func (p Params) Validate() error {
	if p.Rows > MaxRows || p.Cols > MaxCols {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrTooLarge, p.Rows, p.Cols, MaxRows, MaxCols)
	}
	_, err := board.New(p.Unpack())
	return err
}

var (
	Beginner     = Params{Rows: 8, Cols: 8, Mines: 10, Treasures: 1}
	Intermediate = Params{Rows: 16, Cols: 16, Mines: 40, Treasures: 3}
	Expert       = Params{Rows: 30, Cols: 16, Mines: 99, Treasures: 5}
)

var presets = map[string]Params{
	"beginner":     Beginner,
	"intermediate": Intermediate,
	"expert":       Expert,
}

// Presets returns the named difficulty levels.
func Presets() map[string]Params {
	m := make(map[string]Params, len(presets))
	for name, p := range presets {
		m[name] = p
	}
	return m
}

// ParseDifficulty looks up a preset by name, ignoring case and surrounding
// space. Unknown names yield [Beginner] and false.
func ParseDifficulty(name string) (Params, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Beginner, false
	}
	return p, true
}
