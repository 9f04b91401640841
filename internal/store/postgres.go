package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/forkful/recipe-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS extractions (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	source_url TEXT NOT NULL,
	strategy   TEXT NOT NULL,
	recipe     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_extractions_source_url ON extractions(source_url);
CREATE INDEX IF NOT EXISTS idx_extractions_strategy ON extractions(strategy);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveExtraction(ctx context.Context, sourceURL, strategy string, recipe model.Recipe) (*model.Extraction, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal recipe")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO extractions (id, source_url, strategy, recipe, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, sourceURL, strategy, string(recipeJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert extraction")
	}

	return &model.Extraction{
		ID:        id,
		SourceURL: sourceURL,
		Strategy:  strategy,
		Recipe:    recipe,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) GetExtraction(ctx context.Context, id string) (*model.Extraction, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source_url, strategy, recipe, created_at, updated_at FROM extractions WHERE id = $1`, id)

	e, err := scanPostgresExtraction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(err, "postgres: get extraction %s", id)
		}
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) ListExtractions(ctx context.Context, filter ListFilter) ([]model.Extraction, error) {
	query := `SELECT id, source_url, strategy, recipe, created_at, updated_at FROM extractions WHERE 1=1`
	var args []any
	if filter.SourceURL != "" {
		args = append(args, filter.SourceURL)
		query += fmt.Sprintf(` AND source_url = $%d`, len(args))
	}
	if filter.Strategy != "" {
		args = append(args, filter.Strategy)
		query += fmt.Sprintf(` AND strategy = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list extractions")
	}
	defer rows.Close()

	var out []model.Extraction
	for rows.Next() {
		e, err := scanPostgresExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate extractions")
}

func (s *PostgresStore) DeleteExtraction(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM extractions WHERE id = $1`, id)
	if err != nil {
		return eris.Wrap(err, "postgres: delete extraction")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: extraction not found: %s", id)
	}
	return nil
}

func scanPostgresExtraction(row pgx.Row) (*model.Extraction, error) {
	var e model.Extraction
	var recipeJSON string
	if err := row.Scan(&e.ID, &e.SourceURL, &e.Strategy, &recipeJSON, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan extraction")
	}
	if err := json.Unmarshal([]byte(recipeJSON), &e.Recipe); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal recipe")
	}
	return &e, nil
}
