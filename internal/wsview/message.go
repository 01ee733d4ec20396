package wsview

import (
	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

type MessageType string

const (
	MessageStart  MessageType = "start"
	MessageCell   MessageType = "cell"
	MessageStatus MessageType = "status"
	MessageOver   MessageType = "over"
	MessageError  MessageType = "error"
)

type Message struct {
	Type   MessageType  `json:"type"`
	Params *game.Params `json:"params,omitempty"`
	Cell   *CellDTO     `json:"cell,omitempty"`
	Status *StatusDTO   `json:"status,omitempty"`
	Result *ResultDTO   `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type CellState string

const (
	CellHidden    CellState = "hidden"
	CellFlagged   CellState = "flagged"
	CellWrongFlag CellState = "wrong_flag"
	CellMine      CellState = "mine"
	CellTreasure  CellState = "treasure"
	CellOpen      CellState = "open"
)

// CellDTO is what a client may see of a cell. The content of a concealed
// cell is never sent.
type CellDTO struct {
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	State    CellState `json:"state"`
	Adjacent int       `json:"adjacent,omitempty"`
}

func NewCellDTO(pos board.Coord, cell board.Cell, over bool) CellDTO {
	dto := CellDTO{Row: pos.Row, Col: pos.Col}
	switch {
	case cell.IsRevealed() && cell.IsMine():
		dto.State = CellMine
	case cell.IsRevealed() && cell.IsTreasure():
		dto.State = CellTreasure
	case cell.IsRevealed():
		dto.State = CellOpen
		dto.Adjacent = cell.AdjacentMines()
	case over && cell.WrongFlag():
		dto.State = CellWrongFlag
	case cell.IsFlagged():
		dto.State = CellFlagged
	default:
		dto.State = CellHidden
	}
	return dto
}

type StatusDTO struct {
	MinesLeft int    `json:"mines_left"`
	Flags     int    `json:"flags"`
	Elapsed   string `json:"elapsed"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func NewStatusDTO(status game.Status) StatusDTO {
	return StatusDTO{
		MinesLeft: status.MinesLeft,
		Flags:     status.Flags,
		Elapsed:   game.FormatElapsed(status.Elapsed),
		ElapsedMs: status.Elapsed.Milliseconds(),
	}
}

type ResultDTO struct {
	Won       bool   `json:"won"`
	Outcome   string `json:"outcome"`
	Revealed  int    `json:"revealed"`
	Elapsed   string `json:"elapsed"`
	ElapsedMs int64  `json:"elapsed_ms"`
	EndedAt   int64  `json:"ended_at"`
}

func NewResultDTO(result game.Result) ResultDTO {
	return ResultDTO{
		Won:       result.Won,
		Outcome:   result.Outcome.String(),
		Revealed:  result.Revealed,
		Elapsed:   game.FormatElapsed(result.Elapsed),
		ElapsedMs: result.Elapsed.Milliseconds(),
		EndedAt:   result.EndedAt.UnixMilli(),
	}
}
