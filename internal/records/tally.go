package records

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/treasure-sweeper/internal/game"
)

type Tally struct {
	Rows      int    `db:"row_count" json:"rows"`
	Cols      int    `db:"col_count" json:"cols"`
	Mines     int    `db:"mine_count" json:"mines"`
	Treasures int    `db:"treasure_count" json:"treasures"`
	Played    int    `db:"played" json:"played"`
	Won       int    `db:"won" json:"won"`
	BestMs    *int64 `db:"best_ms" json:"best_ms"`
}

func (t Tally) Params() game.Params {
	return game.Params{Rows: t.Rows, Cols: t.Cols, Mines: t.Mines, Treasures: t.Treasures}
}

type TallyFilter struct {
	Params *game.Params
}

func (f TallyFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Params != nil {
		clauses = append(
			clauses,
			"row_count = @rows",
			"col_count = @cols",
			"mine_count = @mines",
			"treasure_count = @treasures",
		)
		args["rows"] = f.Params.Rows
		args["cols"] = f.Params.Cols
		args["mines"] = f.Params.Mines
		args["treasures"] = f.Params.Treasures
	}
	return strings.Join(clauses, " AND "), args
}

// Tallies counts played and won games per board shape.
func (s *Store) Tallies(ctx context.Context, filter TallyFilter) ([]Tally, error) {
	query := `
	SELECT
		row_count,
		col_count,
		mine_count,
		treasure_count,
		count(*) played,
		count(*) FILTER (WHERE won) won,
		min(playtime_ms) FILTER (WHERE won) best_ms
	FROM outcome
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += `
	GROUP BY row_count, col_count, mine_count, treasure_count
	ORDER BY row_count, col_count, mine_count, treasure_count;`

	rows, _ := s.db.Query(ctx, query, args)
	return pgx.CollectRows(rows, pgx.RowToStructByName[Tally])
}

// Tally counts the games played with params. A shape nobody played yields
// zero counts.
func (s *Store) Tally(ctx context.Context, params game.Params) (Tally, error) {
	tallies, err := s.Tallies(ctx, TallyFilter{Params: &params})
	if err != nil {
		return Tally{}, err
	}
	if len(tallies) == 0 {
		return Tally{
			Rows:      params.Rows,
			Cols:      params.Cols,
			Mines:     params.Mines,
			Treasures: params.Treasures,
		}, nil
	}
	return tallies[0], nil
}
