package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

const defaultLedgerTTL = 24 * time.Hour

// ActionLedger remembers successful write actions by idempotency key.
// Key format: idempotency:<action>:<post_id>:<caller_key>
type ActionLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// ledgerEntry is the stored form of a successful domain.ActionResult.
type ledgerEntry struct {
	Action     string    `json:"action"`
	PostID     string    `json:"post_id"`
	StatusCode int       `json:"status_code"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewActionLedger creates an ActionLedger wrapping the given Redis client.
// A non-positive ttl falls back to 24h.
func NewActionLedger(client *redis.Client, ttl time.Duration) *ActionLedger {
	if ttl <= 0 {
		ttl = defaultLedgerTTL
	}
	return &ActionLedger{client: client, ttl: ttl}
}

// Lookup returns the recorded result for key, if any.
func (l *ActionLedger) Lookup(ctx context.Context, key string) (domain.ActionResult, bool, error) {
	raw, err := l.client.Get(ctx, l.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ActionResult{}, false, nil
	}
	if err != nil {
		return domain.ActionResult{}, false, fmt.Errorf("ledger lookup: %w", err)
	}

	var e ledgerEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.ActionResult{}, false, fmt.Errorf("ledger decode: %w", err)
	}
	return domain.Succeeded(domain.ActionKind(e.Action), e.PostID, e.StatusCode), true, nil
}

// Remember records a successful result (expires after the ledger TTL). An
// existing entry for the same key is kept.
func (l *ActionLedger) Remember(ctx context.Context, key string, res domain.ActionResult) error {
	if !res.Success {
		return nil
	}
	raw, err := json.Marshal(ledgerEntry{
		Action:     string(res.Action),
		PostID:     res.PostID,
		StatusCode: res.StatusCode,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("ledger encode: %w", err)
	}
	if err := l.client.SetNX(ctx, l.key(key), raw, l.ttl).Err(); err != nil {
		return fmt.Errorf("ledger remember: %w", err)
	}
	return nil
}

func (l *ActionLedger) key(k string) string {
	return "idempotency:" + k
}
