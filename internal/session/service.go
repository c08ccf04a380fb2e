package session

import (
	"context"
	"time"
)

// Service manages access-token revocation for logout.
type Service struct {
	repo RevocationRepository
}

func NewService(repo RevocationRepository) *Service {
	return &Service{repo: repo}
}

// Revoke blocks jti until expiresAt.
func (s *Service) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return s.repo.Add(ctx, jti, userID, expiresAt)
}

// IsRevoked implements httpx.Revocations.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, jti)
}

// Cleanup drops entries for tokens that have expired anyway.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
