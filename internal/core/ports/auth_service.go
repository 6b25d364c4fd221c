package ports

import (
	"context"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.Operator, error)
	Login(ctx context.Context, username, password string) (string, *domain.Operator, error)
}
