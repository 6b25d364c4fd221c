package ports

import (
	"context"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

// AccountSource yields the handles to poll. It is read at the start of every
// cycle so changes take effect without a restart.
type AccountSource interface {
	TrackedHandles(ctx context.Context) ([]domain.AccountHandle, error)
}

// AccountRepository is the read-only account state store.
type AccountRepository interface {
	AccountSource

	List(ctx context.Context) ([]domain.TrackedAccount, error)
	Count(ctx context.Context) (int64, error)
}
