package board

// Cell is one grid position. The zero value is a concealed, unflagged,
// empty cell with no mined neighbors.
type Cell struct {
	mine          bool
	treasure      bool
	flagged       bool
	revealed      bool
	adjacentMines int
}

// Reveal opens the cell unless it is flagged and reports whether it holds a
// mine.
func (c *Cell) Reveal() (mine bool) {
	if c.flagged {
		return false
	}
	c.revealed = true
	return c.mine
}

// ToggleFlag flips the flag of a concealed cell. Revealed cells are left
// untouched.
func (c *Cell) ToggleFlag() {
	if c.revealed {
		return
	}
	c.flagged = !c.flagged
}

func (c Cell) IsMine() bool       { return c.mine }
func (c Cell) IsTreasure() bool   { return c.treasure }
func (c Cell) IsFlagged() bool    { return c.flagged }
func (c Cell) IsRevealed() bool   { return c.revealed }
func (c Cell) AdjacentMines() int { return c.adjacentMines }

// WrongFlag is true for a flag placed on a cell without a mine.
func (c Cell) WrongFlag() bool {
	return c.flagged && !c.mine
}

func (c Cell) hazard() bool {
	return c.mine || c.treasure
}
