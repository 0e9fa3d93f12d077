package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresSessionStore keeps sessions in the sessions table created by the
// embedded migrations.
type PostgresSessionStore struct {
	db    *Database
	ttl   time.Duration
	codec stateCodec
}

func NewPostgresSessionStore(db *Database, ttl time.Duration, sealer Sealer) *PostgresSessionStore {
	if ttl <= 0 {
		ttl = SessionDuration
	}
	return &PostgresSessionStore{db: db, ttl: ttl, codec: stateCodec{sealer: sealer}}
}

func (s *PostgresSessionStore) Get(ctx context.Context, key string) (*SessionState, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var data []byte
	err := s.db.Pool.QueryRow(ctx, `
		SELECT state
		FROM sessions
		WHERE key = $1 AND expires_at > NOW()`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", describePgError(err))
	}
	return s.codec.decode(data)
}

func (s *PostgresSessionStore) Save(ctx context.Context, key string, state *SessionState) error {
	state.UpdatedAt = time.Now().UTC()
	data, err := s.codec.encode(state)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO sessions (key, state, updated_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key)
		DO UPDATE SET state = EXCLUDED.state,
		              updated_at = EXCLUDED.updated_at,
		              expires_at = EXCLUDED.expires_at`,
		key, data, state.UpdatedAt, state.UpdatedAt.Add(s.ttl))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", describePgError(err))
	}
	return nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", describePgError(err))
	}
	return nil
}

// PurgeExpired removes sessions whose expiry has passed and returns how many
// rows were deleted.
func (s *PostgresSessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", describePgError(err))
	}
	return tag.RowsAffected(), nil
}

// describePgError adds a hint for the Postgres failures an operator can fix.
func describePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UndefinedTable:
		return fmt.Errorf("sessions table missing, run migrations: %w", err)
	case pgerrcode.InsufficientPrivilege:
		return fmt.Errorf("database role cannot access sessions: %w", err)
	}
	return err
}
