package repository

import (
	"context"
	"database/sql"

	"github.com/jask/packagebuilder/internal/database"
)

// EntryRepo handles the key-value entries table.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const upsertSQL = `
	INSERT INTO entries(key, value, checksum, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
	 value=excluded.value,
	 checksum=excluded.checksum,
	 updated_at=excluded.updated_at
	WHERE entries.checksum <> excluded.checksum;
	`

func upsert(ctx context.Context, ex execer, e Entry) (bool, error) {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = database.Now()
	}
	res, err := ex.ExecContext(ctx, upsertSQL, e.Key, e.Value, e.Checksum, e.UpdatedAt.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Upsert writes e unless the stored checksum already matches.
// It reports whether a row was inserted or changed.
func (r *EntryRepo) Upsert(ctx context.Context, e Entry) (bool, error) {
	return upsert(ctx, r.db, e)
}

// UpsertAll writes every entry in one transaction and returns how many
// rows changed. Nothing is written if any entry fails.
func (r *EntryRepo) UpsertAll(ctx context.Context, entries []Entry) (int, error) {
	changed := 0
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, e := range entries {
			ok, err := upsert(ctx, tx, e)
			if err != nil {
				return err
			}
			if ok {
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// Get returns the entry for key, or nil when absent.
func (r *EntryRepo) Get(ctx context.Context, key string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, checksum, updated_at FROM entries WHERE key = ?`, key)
	var e Entry
	if err := row.Scan(&e.Key, &e.Value, &e.Checksum, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Delete removes key. Removing a missing key is not an error.
func (r *EntryRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key)
	return err
}

// DeletePrefix removes every key starting with prefix and returns the count.
func (r *EntryRepo) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE substr(key, 1, length(?)) = ?`, prefix, prefix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListPrefix returns every entry whose key starts with prefix, ordered by key.
func (r *EntryRepo) ListPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT key, value, checksum, updated_at FROM entries
	WHERE substr(key, 1, length(?)) = ?
	ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value, &e.Checksum, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of keys under prefix.
func (r *EntryRepo) Count(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE substr(key, 1, length(?)) = ?`, prefix, prefix).Scan(&n)
	return n, err
}
