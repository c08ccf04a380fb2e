package session

import (
	"context"
	"time"
)

// RevocationRepository stores revoked access-token ids until they expire.
type RevocationRepository interface {
	Add(ctx context.Context, jti, userID string, expiresAt time.Time) error
	Exists(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
