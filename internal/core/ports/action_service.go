package ports

import (
	"context"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

// ActionRequest is the DTO passed from the transport layer to ActionService.
type ActionRequest struct {
	Kind           domain.ActionKind
	PostID         string
	Message        string // reply only
	IdempotencyKey string // optional
	RequestedBy    string // operator username, for logs
}

// ActionService is the gateway-facing facade over the platform client.
type ActionService interface {
	LatestPost(ctx context.Context, handle string) (domain.Post, bool)
	Perform(ctx context.Context, req ActionRequest) domain.ActionResult
}

// ActionQueue accepts actions for asynchronous execution. Actions on the same
// post run in submission order.
type ActionQueue interface {
	EnqueueBatch(batchID string, reqs []ActionRequest) (accepted int, err error)
}
