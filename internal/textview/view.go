package textview

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

// View renders a session as plain text. It keeps its own copy of every
// cell it has been told about, so rendering never touches the board.
type View struct {
	mu     sync.Mutex
	w      io.Writer
	params game.Params
	cells  [][]board.Cell
	status game.Status
	result *game.Result
}

func New(w io.Writer) *View {
	return &View{w: w}
}

// [View] implements [game.Observer]
func (v *View) GameStarted(params game.Params) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.params = params
	v.cells = make([][]board.Cell, params.Rows)
	for r := range v.cells {
		v.cells[r] = make([]board.Cell, params.Cols)
	}
	v.status = game.Status{}
	v.result = nil
}

func (v *View) CellChanged(pos board.Coord, cell board.Cell, _ bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cells[pos.Row][pos.Col] = cell
}

func (v *View) StatusChanged(status game.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = status
}

func (v *View) GameOver(result game.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = &result
	v.render()
	if result.Won {
		fmt.Fprintln(v.w, "Congratulations! You Win!")
	} else {
		fmt.Fprintln(v.w, "Game Over! You Lose.")
	}
}

func (v *View) Render() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.render()
}

func (v *View) symbol(cell board.Cell) string {
	switch {
	case cell.IsRevealed() && cell.IsMine():
		return "M"
	case cell.IsRevealed() && cell.IsTreasure():
		return "T"
	case cell.IsRevealed() && cell.AdjacentMines() > 0:
		return strconv.Itoa(cell.AdjacentMines())
	case cell.IsRevealed():
		return " "
	case cell.IsFlagged() && v.result != nil && cell.WrongFlag():
		return "X"
	case cell.IsFlagged():
		return "F"
	default:
		return "#"
	}
}

func (v *View) render() {
	var b strings.Builder
	border := "  +" + strings.Repeat("---", v.params.Cols) + "+\n"

	fmt.Fprint(&b, "\n   ")
	for c := range v.params.Cols {
		fmt.Fprintf(&b, "%2d ", c)
	}
	fmt.Fprint(&b, "\n", border)
	for r, row := range v.cells {
		fmt.Fprintf(&b, "%2d|", r)
		for _, cell := range row {
			fmt.Fprint(&b, " "+v.symbol(cell)+" ")
		}
		fmt.Fprint(&b, "|\n")
	}
	fmt.Fprint(&b, border)
	fmt.Fprintf(&b, "Mines: %d  Flags: %d  Time: %s\n",
		v.status.MinesLeft, v.status.Flags, game.FormatElapsed(v.status.Elapsed))

	io.WriteString(v.w, b.String())
}
