package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tweetfi/tweetfi-service/internal/pkg/metrics"
	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

// ActionLedger abstracts the idempotency store (Redis).
type ActionLedger interface {
	Lookup(ctx context.Context, key string) (domain.ActionResult, bool, error)
	Remember(ctx context.Context, key string, res domain.ActionResult) error
}

type actionService struct {
	client ports.PlatformClient
	ledger ActionLedger // nil disables idempotency keys
	log    zerolog.Logger
}

// NewActionService returns an ActionService implementation.
func NewActionService(client ports.PlatformClient, ledger ActionLedger, log zerolog.Logger) ports.ActionService {
	return &actionService{
		client: client,
		ledger: ledger,
		log:    log,
	}
}

// LatestPost returns the newest post of handle.
func (s *actionService) LatestPost(ctx context.Context, handle string) (domain.Post, bool) {
	return s.client.GetLatestPost(ctx, domain.AccountHandle(handle))
}

// Perform runs one write action. When the request carries an idempotency key
// and a successful result for it is on record, that result is replayed
// without contacting the platform. Failed results are never recorded.
func (s *actionService) Perform(ctx context.Context, req ports.ActionRequest) domain.ActionResult {
	if !req.Kind.Valid() {
		return domain.Failed(req.Kind, req.PostID, 0, fmt.Errorf("%w: %q", domain.ErrUnknownAction, req.Kind))
	}

	key := s.ledgerKey(req)

	// 1. Replay a previous success for the same key.
	if key != "" {
		prev, found, err := s.ledger.Lookup(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("post_id", req.PostID).Msg("idempotency lookup failed, performing action")
		case found:
			prev.Replayed = true
			metrics.ActionsTotal.WithLabelValues(string(req.Kind), "replayed").Inc()
			s.log.Debug().Str("action", string(req.Kind)).Str("post_id", req.PostID).Msg("action replayed")
			return prev
		}
	}

	// 2. Hit the platform.
	res := s.dispatch(ctx, req)

	outcome := "failure"
	if res.Success {
		outcome = "success"
	}
	metrics.ActionsTotal.WithLabelValues(string(req.Kind), outcome).Inc()

	// 3. Record successes only, so a failed action can be retried with the same key.
	if key != "" && res.Success {
		if err := s.ledger.Remember(ctx, key, res); err != nil {
			s.log.Warn().Err(err).Str("post_id", req.PostID).Msg("failed to record idempotency key")
		}
	}

	s.log.Info().
		Str("action", string(req.Kind)).
		Str("post_id", req.PostID).
		Str("requested_by", req.RequestedBy).
		Bool("success", res.Success).
		Int("status", res.StatusCode).
		Msg("action performed")

	return res
}

func (s *actionService) dispatch(ctx context.Context, req ports.ActionRequest) domain.ActionResult {
	switch req.Kind {
	case domain.ActionLike:
		return s.client.LikePost(ctx, req.PostID)
	case domain.ActionRepost:
		return s.client.RepostPost(ctx, req.PostID)
	default:
		return s.client.ReplyToPost(ctx, req.PostID, req.Message)
	}
}

// ledgerKey scopes the caller's key to the action and target so one key can
// not replay a different action.
func (s *actionService) ledgerKey(req ports.ActionRequest) string {
	if s.ledger == nil || req.IdempotencyKey == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", req.Kind, req.PostID, req.IdempotencyKey)
}
