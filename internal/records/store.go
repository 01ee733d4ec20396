// Package records keeps a log of finished games in PostgreSQL. Only
// outcomes are stored; boards are never persisted or resumed.
package records

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/game"
)

//go:embed migrations/*.sql
var migrations embed.FS

var ErrInvalidOutcome = errors.New("invalid outcome")

// Migrate brings the schema at dbUrl up to date and returns its version.
func Migrate(dbUrl string) (version uint, err error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, dbUrl)
	if err != nil {
		return 0, fmt.Errorf("unable to create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to migrate database: %w", err)
	}
	version, dirty, err := migrator.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to check migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("database schema is dirty at version %d", version)
	}
	return version, nil
}

type Store struct {
	db     *pgxpool.Pool
	logger *logrus.Entry
}

// Connect migrates the database at dbUrl and opens a connection pool to it.
func Connect(ctx context.Context, dbUrl string, logger *logrus.Entry) (*Store, error) {
	version, err := Migrate(dbUrl)
	if err != nil {
		return nil, err
	}

	dbconfig, err := pgxpool.ParseConfig(dbUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	db, err := pgxpool.NewWithConfig(ctx, dbconfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	logger.WithField("schema_version", version).Info("outcome log ready")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

// Record implements [game.Recorder].
func (s *Store) Record(ctx context.Context, result game.Result) error {
	args := pgx.NamedArgs{
		"row_count":      result.Params.Rows,
		"col_count":      result.Params.Cols,
		"mine_count":     result.Params.Mines,
		"treasure_count": result.Params.Treasures,
		"won":            result.Won,
		"result":         result.Outcome.String(),
		"revealed":       result.Revealed,
		"playtime_ms":    result.Elapsed.Milliseconds(),
		"ended_at":       result.EndedAt,
	}
	_, err := s.db.Exec(
		ctx,
		`INSERT INTO outcome (
			row_count, col_count, mine_count, treasure_count,
			won, result, revealed, playtime_ms, ended_at
		)
		VALUES (
			@row_count, @col_count, @mine_count, @treasure_count,
			@won, @result, @revealed, @playtime_ms, @ended_at
		);`,
		args,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return fmt.Errorf("%w: %s", ErrInvalidOutcome, pgErr.Message)
		}
		return fmt.Errorf("unable to insert outcome: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"params": result.Params.String(),
		"won":    result.Won,
	}).Debug("outcome recorded")
	return nil
}
