package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultQuotaBytes mirrors the typical browser storage bound.
const DefaultQuotaBytes int64 = 5 * 1024 * 1024

var ErrQuotaExceeded = errors.New("local store quota exceeded")

// SQLiteStore is the device-local key/value store. Writes never fail from
// the caller's point of view: errors, including quota overruns, are logged
// and the value is simply not persisted.
type SQLiteStore struct {
	db     *sql.DB
	quota  int64
	logger *zap.Logger
}

// Open opens/creates the database file and runs migrations.
func Open(path string, quota int64, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if quota <= 0 {
		quota = DefaultQuotaBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &SQLiteStore{db: db, quota: quota, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  k TEXT PRIMARY KEY,
  v TEXT NOT NULL
);
`)
	return err
}

func (s *SQLiteStore) Write(key, value string) {
	if err := s.write(context.Background(), key, value); err != nil {
		s.logger.Warn("local store write dropped",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Error(err))
	}
}

func (s *SQLiteStore) write(ctx context.Context, key, value string) error {
	var others int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(CAST(v AS BLOB))), 0) FROM kv WHERE k != ?`, key,
	).Scan(&others)
	if err != nil {
		return fmt.Errorf("failed to measure usage: %w", err)
	}
	if others+int64(len(value)) > s.quota {
		return ErrQuotaExceeded
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO kv(k, v) VALUES(?, ?)
ON CONFLICT(k) DO UPDATE SET v = excluded.v`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Read(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("local store read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return v, true
}

func (s *SQLiteStore) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE k = ?`, key); err != nil {
		s.logger.Warn("local store remove failed", zap.String("key", key), zap.Error(err))
	}
}
