package board

import (
	"fmt"
	"hash/maphash"
	"math"
	"math/rand/v2"
	"strings"
)

type Coord struct {
	Row, Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Update lists the coordinates whose cells changed during one operation, in
// the order they changed.
type Update []Coord

type Board struct {
	rows, cols    int
	mineCount     int
	treasureCount int

	grid      [][]Cell
	mines     []Coord
	treasures []Coord

	fixed     bool
	fixedMine []Coord
	fixedTrsr []Coord
	rnd       *rand.Rand

	flagged      int
	correctFlags int
	revealedSafe int
}

type Option func(*Board)

// WithRand sets the source used for random placement.
func WithRand(r *rand.Rand) Option {
	return func(b *Board) {
		b.rnd = r
	}
}

// WithPlacements switches the board to fixed mode: every Setup applies the
// given coordinates instead of sampling. The slices are copied.
func WithPlacements(mines, treasures []Coord) Option {
	return func(b *Board) {
		b.fixed = true
		b.fixedMine = append([]Coord{}, mines...)
		b.fixedTrsr = append([]Coord{}, treasures...)
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// New validates the configuration and returns a board that still needs a
// call to [Board.Setup] before play.
func New(rows, cols, mineCount, treasureCount int, opts ...Option) (*Board, error) {
	b := &Board{
		rows:          rows,
		cols:          cols,
		mineCount:     mineCount,
		treasureCount: treasureCount,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rnd == nil {
		b.rnd = createRand()
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// NewFixed builds a fixed-mode board whose counts are taken from the
// supplied placements.
func NewFixed(rows, cols int, mines, treasures []Coord, opts ...Option) (*Board, error) {
	opts = append(opts, WithPlacements(mines, treasures))
	return New(rows, cols, len(mines), len(treasures), opts...)
}

func (b *Board) validate() error {
	if b.rows <= 0 || b.cols <= 0 {
		return configErrorf("dimensions must be positive, got %dx%d", b.rows, b.cols)
	}
	if b.cols > math.MaxInt/b.rows {
		return configErrorf("%dx%d board has too many cells", b.rows, b.cols)
	}
	if b.mineCount < 0 || b.treasureCount < 0 {
		return configErrorf("counts must be non-negative, got %d mines and %d treasures",
			b.mineCount, b.treasureCount)
	}
	if b.mineCount+b.treasureCount >= b.rows*b.cols {
		return configErrorf("%d mines and %d treasures do not fit a %dx%d board",
			b.mineCount, b.treasureCount, b.rows, b.cols)
	}
	if !b.fixed {
		return nil
	}
	if len(b.fixedMine) != b.mineCount {
		return configErrorf("expected %d mine positions, got %d", b.mineCount, len(b.fixedMine))
	}
	if len(b.fixedTrsr) != b.treasureCount {
		return configErrorf("expected %d treasure positions, got %d", b.treasureCount, len(b.fixedTrsr))
	}
	seen := make(map[Coord]string, len(b.fixedMine)+len(b.fixedTrsr))
	check := func(kind string, positions []Coord) error {
		for _, p := range positions {
			if !b.InBounds(p.Row, p.Col) {
				return configErrorf("%s at %s is outside the %dx%d board", kind, p, b.rows, b.cols)
			}
			if other, ok := seen[p]; ok {
				return configErrorf("%s at %s overlaps a %s", kind, p, other)
			}
			seen[p] = kind
		}
		return nil
	}
	if err := check("mine", b.fixedMine); err != nil {
		return err
	}
	return check("treasure", b.fixedTrsr)
}

func (b *Board) Rows() int          { return b.rows }
func (b *Board) Cols() int          { return b.cols }
func (b *Board) MineCount() int     { return b.mineCount }
func (b *Board) TreasureCount() int { return b.treasureCount }
func (b *Board) Fixed() bool        { return b.fixed }

func (b *Board) FlagCount() int         { return b.flagged }
func (b *Board) CorrectFlagCount() int  { return b.correctFlags }
func (b *Board) RevealedSafeCount() int { return b.revealedSafe }

// SafeCount is the number of cells that are neither mines nor treasures.
func (b *Board) SafeCount() int {
	return b.rows*b.cols - b.mineCount - b.treasureCount
}

func (b *Board) Mines() []Coord {
	return append([]Coord{}, b.mines...)
}

func (b *Board) Treasures() []Coord {
	return append([]Coord{}, b.treasures...)
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

func (b *Board) checkBounds(row, col int) error {
	if !b.InBounds(row, col) {
		return &OutOfBoundsError{Pos: Coord{row, col}, Rows: b.rows, Cols: b.cols}
	}
	if b.grid == nil {
		return ErrNotReady
	}
	return nil
}

// Cell returns a copy of the cell at row, col.
func (b *Board) Cell(row, col int) (Cell, error) {
	if err := b.checkBounds(row, col); err != nil {
		return Cell{}, err
	}
	return b.grid[row][col], nil
}

var offsets = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the in-bounds cells around row, col in a fixed order:
// top row left to right, then left, right, then bottom row left to right.
func (b *Board) Neighbors(row, col int) ([]Coord, error) {
	if !b.InBounds(row, col) {
		return nil, &OutOfBoundsError{Pos: Coord{row, col}, Rows: b.rows, Cols: b.cols}
	}
	return b.neighbors(Coord{row, col}), nil
}

func (b *Board) neighbors(c Coord) []Coord {
	neighbors := make([]Coord, 0, len(offsets))
	for _, d := range offsets {
		if r, cc := c.Row+d.Row, c.Col+d.Col; b.InBounds(r, cc) {
			neighbors = append(neighbors, Coord{r, cc})
		}
	}
	return neighbors
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := range b.grid {
		for c := range b.grid[r] {
			cell := b.grid[r][c]
			var ch string
			switch {
			case cell.mine:
				ch = "* "
			case cell.treasure:
				ch = "$ "
			case cell.adjacentMines == 0:
				ch = ". "
			default:
				ch = fmt.Sprintf("%d ", cell.adjacentMines)
			}
			fmt.Fprint(&sb, ch)
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}
