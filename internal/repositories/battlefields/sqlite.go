package battlefields

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS battlefields (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	channel_id TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS battlefields_owner_idx ON battlefields (owner_id, created_at);
`

// SQLiteRepository persists battlefields in a SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens or creates a SQLite battlefield store at path
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, terrerr.InvalidArgument("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, terrerr.Wrap(err, "open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, terrerr.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, terrerr.Wrap(err, "create battlefields schema")
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the SQLite handle
func (s *SQLiteRepository) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a new battlefield row
func (s *SQLiteRepository) Create(ctx context.Context, field *battlefield.Battlefield) error {
	if err := validate(field); err != nil {
		return err
	}

	data, err := marshal(field)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO battlefields (id, owner_id, channel_id, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		field.ID,
		field.OwnerID,
		field.ChannelID,
		string(data),
		toMillis(field.CreatedAt),
		toMillis(field.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return terrerr.AlreadyExistsf("battlefield %s already exists", field.ID)
		}
		return terrerr.Wrap(err, "create battlefield")
	}

	return nil
}

// Get loads one battlefield
func (s *SQLiteRepository) Get(ctx context.Context, id string) (*battlefield.Battlefield, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM battlefields WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, terrerr.NotFoundf("battlefield not found: %s", id)
		}
		return nil, terrerr.Wrap(err, "get battlefield")
	}

	return unmarshal([]byte(data))
}

// Update rewrites an existing battlefield row
func (s *SQLiteRepository) Update(ctx context.Context, field *battlefield.Battlefield) error {
	if err := validate(field); err != nil {
		return err
	}

	data, err := marshal(field)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE battlefields SET owner_id = ?, channel_id = ?, data = ?, updated_at = ? WHERE id = ?`,
		field.OwnerID,
		field.ChannelID,
		string(data),
		toMillis(field.UpdatedAt),
		field.ID,
	)
	if err != nil {
		return terrerr.Wrap(err, "update battlefield")
	}

	return requireRow(res, field.ID)
}

// Delete removes a battlefield row
func (s *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM battlefields WHERE id = ?`, id)
	if err != nil {
		return terrerr.Wrap(err, "delete battlefield")
	}

	return requireRow(res, id)
}

// ListByOwner returns an owner's battlefields, oldest first
func (s *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*battlefield.Battlefield, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data, created_at FROM battlefields WHERE owner_id = ? ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, terrerr.Wrap(err, "list battlefields")
	}
	defer rows.Close()

	var fields []*battlefield.Battlefield
	for rows.Next() {
		var (
			data      string
			createdAt int64
		)
		if err := rows.Scan(&data, &createdAt); err != nil {
			return nil, terrerr.Wrap(err, "scan battlefield")
		}
		field, err := unmarshal([]byte(data))
		if err != nil {
			return nil, err
		}
		field.CreatedAt = fromMillis(createdAt)
		fields = append(fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, terrerr.Wrap(err, "iterate battlefields")
	}

	return fields, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return terrerr.Wrap(err, "read affected rows")
	}
	if n == 0 {
		return terrerr.NotFoundf("battlefield not found: %s", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ Repository = (*SQLiteRepository)(nil)
