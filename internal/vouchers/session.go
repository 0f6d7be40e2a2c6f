package vouchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EditorSession is a server-side line editing session. The editor state and
// gate position live in Redis so any API instance can serve the next edit.
type EditorSession struct {
	ID        string      `json:"id"`
	VoucherID int64       `json:"voucher_id"`
	Gate      GateState   `json:"gate"`
	State     EditorState `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
}

// SessionStore persists editor sessions with a sliding TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create opens a session. A session over a persisted voucher starts locked
// behind the edit gate; a brand-new voucher starts unlocked and empty.
func (s *SessionStore) Create(ctx context.Context, voucherID int64, lines []LedgerLine) (EditorSession, error) {
	gate := GateUnlocked
	if voucherID != 0 {
		gate = GateLocked
	}
	sess := EditorSession{
		ID:        uuid.NewString(),
		VoucherID: voucherID,
		Gate:      gate,
		State:     NewLineEditor(lines).Snapshot(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Put(ctx, sess); err != nil {
		return EditorSession{}, err
	}
	return sess, nil
}

// Get loads a session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (EditorSession, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return EditorSession{}, ErrSessionNotFound
		}
		return EditorSession{}, fmt.Errorf("editor session: get: %w", err)
	}
	var sess EditorSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return EditorSession{}, fmt.Errorf("editor session: decode: %w", err)
	}
	return sess, nil
}

// Put stores the session and refreshes its TTL.
func (s *SessionStore) Put(ctx context.Context, sess EditorSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("editor session: encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("editor session: put: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return "vouchers:editor:" + id
}
