package records

import (
	"context"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.WarnLevel)
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	os.Exit(m.Run())
}

func TestWhereClause(t *testing.T) {
	clause, args := TallyFilter{}.WhereClause()
	assert.Empty(t, clause)
	assert.Empty(t, args)

	clause, args = TallyFilter{Params: &game.Beginner}.WhereClause()
	assert.Equal(t,
		"row_count = @rows AND col_count = @cols AND mine_count = @mines AND treasure_count = @treasures",
		clause,
	)
	assert.Equal(t, pgx.NamedArgs{"rows": 8, "cols": 8, "mines": 10, "treasures": 1}, args)
}

func TestTallyParams(t *testing.T) {
	tally := Tally{Rows: 16, Cols: 16, Mines: 40, Treasures: 3, Played: 2}
	assert.Equal(t, game.Intermediate, tally.Params())
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func connect(t *testing.T) *Store {
	t.Helper()
	dbUrl, ok := os.LookupEnv("DATABASE_URL")
	if !ok {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Connect(ctx, dbUrl, logrus.NewEntry(logrus.StandardLogger()))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestRecordAndTally(t *testing.T) {
	store := connect(t)
	ctx := context.Background()

	// a shape no other run uses
	params := game.Params{Rows: 100 + rand.IntN(1_000_000), Cols: 3, Mines: 1, Treasures: 1}

	tally, err := store.Tally(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 0, tally.Played)
	assert.Nil(t, tally.BestMs)

	results := []game.Result{
		{Params: params, Won: true, Outcome: board.TreasureHit, Revealed: 4, Elapsed: 3 * time.Second},
		{Params: params, Won: true, Outcome: board.Cleared, Revealed: 7, Elapsed: 2 * time.Second},
		{Params: params, Won: false, Outcome: board.MineHit, Revealed: 1, Elapsed: time.Second},
	}
	for _, r := range results {
		r.EndedAt = time.Now()
		require.NoError(t, store.Record(ctx, r))
	}

	tally, err = store.Tally(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, params, tally.Params())
	assert.Equal(t, 3, tally.Played)
	assert.Equal(t, 2, tally.Won)
	require.NotNil(t, tally.BestMs)
	assert.Equal(t, int64(2000), *tally.BestMs)

	all, err := store.Tallies(ctx, TallyFilter{})
	require.NoError(t, err)
	assert.Contains(t, all, tally)
}

func TestRecordInvalid(t *testing.T) {
	store := connect(t)

	err := store.Record(context.Background(), game.Result{
		Params:   game.Beginner,
		Outcome:  board.MineHit,
		Revealed: -1,
		EndedAt:  time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}
