package fixture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vancomm/treasure-sweeper/internal/board"
)

var ErrRejected = errors.New("board rejected")

// Policy decides which layouts a test run accepts. Policies are about test
// fixtures only; the board itself accepts any disjoint placement.
type Policy interface {
	Validate(l *Layout) error
}

type PolicyFunc func(l *Layout) error

func (f PolicyFunc) Validate(l *Layout) error {
	return f(l)
}

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func touching(a, b board.Coord) bool {
	return absDiff(a.Row, b.Row) <= 1 && absDiff(a.Col, b.Col) <= 1
}

func orthogonal(a, b board.Coord) bool {
	return absDiff(a.Row, b.Row)+absDiff(a.Col, b.Col) == 1
}

func diagonal(a, b board.Coord) bool {
	return absDiff(a.Row, b.Row) == 1 && absDiff(a.Col, b.Col) == 1
}

// Any accepts every layout.
var Any = PolicyFunc(func(l *Layout) error { return nil })

// Classic is the rule set of the 8x8 test boards: ten mines, the first eight
// in distinct rows and columns without touching each other, the ninth next
// to one of them, the tenth clear of all nine, and at most nine treasures.
var Classic = PolicyFunc(func(l *Layout) error {
	if l.Rows != 8 || l.Cols != 8 {
		return rejectf("expected an 8x8 board, got %dx%d", l.Rows, l.Cols)
	}
	if len(l.Mines) != 10 {
		return rejectf("expected 10 mines, got %d", len(l.Mines))
	}
	if len(l.Treasures) > 9 {
		return rejectf("at most 9 treasures allowed, got %d", len(l.Treasures))
	}

	first := l.Mines[:8]
	rows, cols := make(map[int]bool), make(map[int]bool)
	for _, m := range first {
		rows[m.Row], cols[m.Col] = true, true
	}
	if len(rows) != 8 || len(cols) != 8 {
		return rejectf("the first 8 mines must be in distinct rows and columns")
	}
	for i, a := range first {
		for _, b := range first[i+1:] {
			if touching(a, b) {
				return rejectf("mines %s and %s touch", a, b)
			}
		}
	}

	ninth := l.Mines[8]
	paired := false
	for _, m := range first {
		if orthogonal(ninth, m) {
			paired = true
			break
		}
	}
	if !paired {
		return rejectf("mine %s must be next to one of the first 8", ninth)
	}

	tenth := l.Mines[9]
	for _, m := range l.Mines[:9] {
		if touching(tenth, m) {
			return rejectf("mine %s must not touch %s", tenth, m)
		}
	}
	return nil
})

// Relaxed asks for at least one diagonal pair of mines, one orthogonal pair
// and one pair that does not touch.
var Relaxed = PolicyFunc(func(l *Layout) error {
	var hasDiagonal, hasOrthogonal, hasApart bool
	for i, a := range l.Mines {
		for _, b := range l.Mines[i+1:] {
			switch {
			case diagonal(a, b):
				hasDiagonal = true
			case orthogonal(a, b):
				hasOrthogonal = true
			case !touching(a, b):
				hasApart = true
			}
		}
	}
	var missing []string
	if !hasDiagonal {
		missing = append(missing, "a diagonal pair")
	}
	if !hasOrthogonal {
		missing = append(missing, "an adjacent pair")
	}
	if !hasApart {
		missing = append(missing, "a non-adjacent pair")
	}
	if len(missing) > 0 {
		return rejectf("mines need %s", strings.Join(missing, ", "))
	}
	return nil
})

// PolicyByName maps the names accepted on the command line to policies.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "none", "any":
		return Any, nil
	case "classic":
		return Classic, nil
	case "relaxed":
		return Relaxed, nil
	default:
		return nil, fmt.Errorf("unknown board policy %q", name)
	}
}
