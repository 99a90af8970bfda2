package metadata

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLResponseStore implements ResponseStore on the response_cache table.
type SQLResponseStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLResponseStore creates a new SQLResponseStore.
func NewSQLResponseStore(db *sql.DB) *SQLResponseStore {
	return &SQLResponseStore{db: db, now: time.Now}
}

func (s *SQLResponseStore) GetResponse(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM response_cache WHERE cache_key = ? AND expires_at > ?`,
		key, s.now().UnixMilli(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (s *SQLResponseStore) PutResponse(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO response_cache (cache_key, payload, stored_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   payload = excluded.payload,
		   stored_at = excluded.stored_at,
		   expires_at = excluded.expires_at`,
		key, payload, now.UnixMilli(), now.Add(ttl).UnixMilli(),
	)
	return err
}

func (s *SQLResponseStore) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM response_cache WHERE expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLResponseStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM response_cache`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
