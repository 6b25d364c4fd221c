package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

const defaultTokenTTL = 12 * time.Hour

// AuthService registers gateway operators and issues their HS256 tokens.
type AuthService struct {
	repo      ports.OperatorRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.OperatorRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role != domain.RoleAdmin && role != domain.RoleOperator {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.Operator{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login checks the password and returns a signed token. An unknown username
// and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Operator, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	op, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrOperatorNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(op)
	if err != nil {
		return "", nil, err
	}
	return token, op, nil
}

func (s *AuthService) generateToken(op *domain.Operator) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      op.ID,
		"username": op.Username,
		"role":     op.Role,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
