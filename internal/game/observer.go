package game

import (
	"context"
	"time"

	"github.com/vancomm/treasure-sweeper/internal/board"
)

type Status struct {
	MinesLeft int           `json:"mines_left"`
	Flags     int           `json:"flags"`
	Elapsed   time.Duration `json:"elapsed"`
}

type Result struct {
	Params   Params        `json:"params"`
	Won      bool          `json:"won"`
	Outcome  board.Outcome `json:"outcome"`
	Revealed int           `json:"revealed"`
	Elapsed  time.Duration `json:"elapsed"`
	EndedAt  time.Time     `json:"ended_at"`
}

// Observer is notified of every visible change of a session. Calls are
// serialized by the session. over is true for cells reported once the game
// has ended, when a flag on a safe cell counts as wrong.
type Observer interface {
	GameStarted(params Params)
	CellChanged(pos board.Coord, cell board.Cell, over bool)
	StatusChanged(status Status)
	GameOver(result Result)
}

// Recorder stores finished games.
type Recorder interface {
	Record(ctx context.Context, result Result) error
}
