package ports

import (
	"context"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

// OperatorRepository persists gateway operators.
type OperatorRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Operator, error)
	Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error)
}
