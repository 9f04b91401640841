package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/forkful/recipe-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS extractions (
	id         TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	strategy   TEXT NOT NULL,
	recipe     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_extractions_source_url ON extractions(source_url);
CREATE INDEX IF NOT EXISTS idx_extractions_strategy ON extractions(strategy);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveExtraction(ctx context.Context, sourceURL, strategy string, recipe model.Recipe) (*model.Extraction, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal recipe")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, source_url, strategy, recipe, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, sourceURL, strategy, string(recipeJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert extraction")
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

func (s *SQLiteStore) GetExtraction(ctx context.Context, id string) (*model.Extraction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_url, strategy, recipe, created_at, updated_at FROM extractions WHERE id = ?`, id)
	return scanExtraction(row)
}

func (s *SQLiteStore) ListExtractions(ctx context.Context, filter ListFilter) ([]model.Extraction, error) {
	query := `SELECT id, source_url, strategy, recipe, created_at, updated_at FROM extractions WHERE 1=1`
	var args []any
	if filter.SourceURL != "" {
		query += ` AND source_url = ?`
		args = append(args, filter.SourceURL)
	}
	if filter.Strategy != "" {
		query += ` AND strategy = ?`
		args = append(args, filter.Strategy)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list extractions")
	}
	defer rows.Close()

	var out []model.Extraction
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate extractions")
}

func (s *SQLiteStore) DeleteExtraction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM extractions WHERE id = ?`, id)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete extraction")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Errorf("sqlite: extraction not found: %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row rowScanner) (*model.Extraction, error) {
	var e model.Extraction
	var recipeJSON string
	if err := row.Scan(&e.ID, &e.SourceURL, &e.Strategy, &recipeJSON, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Wrap(err, "get extraction")
		}
		return nil, eris.Wrap(err, "scan extraction")
	}
	if err := json.Unmarshal([]byte(recipeJSON), &e.Recipe); err != nil {
		return nil, eris.Wrap(err, "unmarshal recipe")
	}
	return &e, nil
}
