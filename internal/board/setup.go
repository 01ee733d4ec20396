package board

// Setup discards the current grid and builds a fresh one: counters are
// reset, mines and treasures are placed and every adjacency count is
// recomputed.
func (b *Board) Setup() error {
	if err := b.validate(); err != nil {
		return err
	}

	b.grid = make([][]Cell, b.rows)
	for r := range b.grid {
		b.grid[r] = make([]Cell, b.cols)
	}
	b.flagged, b.correctFlags, b.revealedSafe = 0, 0, 0

	if b.fixed {
		b.mines = append([]Coord{}, b.fixedMine...)
		b.treasures = append([]Coord{}, b.fixedTrsr...)
	} else {
		b.mines, b.treasures = b.sample()
	}

	for _, p := range b.mines {
		b.grid[p.Row][p.Col].mine = true
	}
	for _, p := range b.treasures {
		b.grid[p.Row][p.Col].treasure = true
	}

	b.countAdjacent()
	return nil
}

// sample draws mines and then treasures from a single candidate pool
// without replacement, so the two sets are disjoint by construction.
func (b *Board) sample() (mines, treasures []Coord) {
	/*
	 * Write down the list of possible locations.
	 */
	candidates := make([]int, b.rows*b.cols)
	for i := range candidates {
		candidates[i] = i
	}

	/*
	 * Now pick them off the list at random, moving the last
	 * candidate into the hole left by each pick.
	 */
	k := len(candidates)
	pick := func(n int) []Coord {
		picked := make([]Coord, 0, n)
		for range n {
			i := b.rnd.IntN(k)
			picked = append(picked, Coord{candidates[i] / b.cols, candidates[i] % b.cols})
			k--
			candidates[i] = candidates[k]
		}
		return picked
	}

	mines = pick(b.mineCount)
	treasures = pick(b.treasureCount)
	return
}

func (b *Board) countAdjacent() {
	for r := range b.rows {
		for c := range b.cols {
			n := 0
			for _, p := range b.neighbors(Coord{r, c}) {
				if b.grid[p.Row][p.Col].mine {
					n++
				}
			}
			b.grid[r][c].adjacentMines = n
		}
	}
}
