package ports

import (
	"context"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

// PostFetcher is the read side of the platform client used by the poller.
type PostFetcher interface {
	// GetLatestPost returns the newest post of handle, or false when the
	// platform could not produce one.
	GetLatestPost(ctx context.Context, handle domain.AccountHandle) (domain.Post, bool)
}

// PlatformClient is the full remote API surface. Every method is total: no
// error ever escapes, callers only see a value or its absence.
type PlatformClient interface {
	PostFetcher

	ResolveOwnIdentity(ctx context.Context) (domain.AccountID, bool)
	LikePost(ctx context.Context, postID string) domain.ActionResult
	RepostPost(ctx context.Context, postID string) domain.ActionResult
	ReplyToPost(ctx context.Context, postID, message string) domain.ActionResult
}
