package board

type Outcome int

const (
	NoOp Outcome = iota
	Safe
	MineHit
	TreasureHit
	Cleared // every safe cell is revealed
)

func (o Outcome) String() string {
	switch o {
	case NoOp:
		return "no-op"
	case Safe:
		return "safe"
	case MineHit:
		return "mine"
	case TreasureHit:
		return "treasure"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// GameOver reports whether the outcome ends the game.
func (o Outcome) GameOver() bool {
	return o == MineHit || o == TreasureHit || o == Cleared
}

// Won reports whether the outcome ends the game in a win.
func (o Outcome) Won() bool {
	return o == TreasureHit || o == Cleared
}

// RevealAt opens the cell at row, col. A safe cell without mined neighbors
// starts a breadth-first cascade over the connected zero region and its
// numbered border. Mines and treasures are never opened by the cascade.
func (b *Board) RevealAt(row, col int) (update Update, outcome Outcome, err error) {
	if err = b.checkBounds(row, col); err != nil {
		return nil, NoOp, err
	}

	cell := &b.grid[row][col]
	if cell.revealed || cell.flagged {
		return nil, NoOp, nil
	}

	start := Coord{row, col}
	cell.Reveal()
	update = append(update, start)

	switch {
	case cell.mine:
		return update, MineHit, nil
	case cell.treasure:
		return update, TreasureHit, nil
	}

	b.revealedSafe++
	if cell.adjacentMines == 0 {
		update = b.cascade(start, update)
	}

	outcome = Safe
	if b.revealedSafe == b.SafeCount() {
		outcome = Cleared
	}
	return update, outcome, nil
}

func (b *Board) cascade(start Coord, update Update) Update {
	queue := []Coord{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, p := range b.neighbors(current) {
			n := &b.grid[p.Row][p.Col]
			if n.revealed || n.flagged || n.hazard() {
				continue
			}
			n.Reveal()
			b.revealedSafe++
			update = append(update, p)
			if n.adjacentMines == 0 {
				queue = append(queue, p)
			}
		}
	}
	return update
}

// ToggleFlagAt flags or unflags a concealed cell and keeps the flag
// counters in step. It reports whether anything changed.
func (b *Board) ToggleFlagAt(row, col int) (changed bool, err error) {
	if err = b.checkBounds(row, col); err != nil {
		return false, err
	}

	cell := &b.grid[row][col]
	if cell.revealed {
		return false, nil
	}
	cell.ToggleFlag()

	delta := -1
	if cell.flagged {
		delta = 1
	}
	b.flagged += delta
	if cell.mine {
		b.correctFlags += delta
	}
	return true, nil
}

// RevealHazards opens every unflagged mine and treasure, as done when a
// game ends. Flags stay in place so wrong ones can be shown.
func (b *Board) RevealHazards() (update Update) {
	for _, group := range [][]Coord{b.mines, b.treasures} {
		for _, p := range group {
			cell := &b.grid[p.Row][p.Col]
			if cell.revealed || cell.flagged {
				continue
			}
			cell.Reveal()
			update = append(update, p)
		}
	}
	return
}
