package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Well-known state blob keys. The names match the browser build of the
// tutor so an exported state dump stays recognizable.
const (
	KeyPerformanceStats  = "ai-tutor-performance-stats"
	KeyGamificationStats = "ai-tutor-gamification-stats"
	KeyChatSessions      = "ai-tutor-chat-sessions"
	KeyUserName          = "ai-tutor-user-name"
)

// StateRepo is the key-value persistence gateway: load and save named
// blobs of JSON-serializable state. It makes no assumptions about blob
// contents.
type StateRepo interface {
	// Load returns the blob stored under key. The second return is false
	// when no blob exists for the key.
	Load(ctx context.Context, key string) ([]byte, bool, error)

	// Save stores the blob under key, replacing any previous value.
	Save(ctx context.Context, key string, blob []byte) error

	// Delete removes the blob stored under key, if any.
	Delete(ctx context.Context, key string) error
}

type stateRepo struct {
	db *sql.DB
}

func (r *stateRepo) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (r *stateRepo) Save(ctx context.Context, key string, blob []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(blob))
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

func (r *stateRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
