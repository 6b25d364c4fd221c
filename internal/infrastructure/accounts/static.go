// Package accounts provides the configuration-backed account source.
package accounts

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

// Static serves a fixed handle list, typically TARGET_USERS.
type Static struct {
	handles []domain.AccountHandle
}

// NewStatic trims each name and drops blanks. Order and duplicates are kept.
func NewStatic(names []string) *Static {
	kept := lo.FilterMap(names, func(n string, _ int) (domain.AccountHandle, bool) {
		n = strings.TrimSpace(n)
		return domain.AccountHandle(n), n != ""
	})
	return &Static{handles: kept}
}

// TrackedHandles returns a copy of the configured list.
func (s *Static) TrackedHandles(context.Context) ([]domain.AccountHandle, error) {
	out := make([]domain.AccountHandle, len(s.handles))
	copy(out, s.handles)
	return out, nil
}

// List reports every configured handle as an active account.
func (s *Static) List(context.Context) ([]domain.TrackedAccount, error) {
	return lo.Map(s.handles, func(h domain.AccountHandle, _ int) domain.TrackedAccount {
		return domain.TrackedAccount{Username: string(h), Active: true}
	}), nil
}

func (s *Static) Count(context.Context) (int64, error) {
	return int64(len(s.handles)), nil
}
