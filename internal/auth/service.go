package auth

import (
	"context"
	"time"

	"lms/internal/apperr"
	"lms/internal/platform/crypto"
	"lms/internal/session"
	"lms/internal/user"
)

var ErrInvalidCredentials = apperr.Unauthorized("Invalid username or password")

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	User        user.User `json:"user"`
}

type Service struct {
	secret         string
	tokenTTL       time.Duration
	userService    *user.Service
	sessionService *session.Service
}

func NewService(secret string, tokenTTL time.Duration, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		tokenTTL:       tokenTTL,
		userService:    userService,
		sessionService: sessionService,
	}
}

// Login checks the password and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	u, err := s.userService.GetByUsername(ctx, username)
	if err != nil {
		if apperr.Is(err, user.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        u,
	}, nil
}

// Logout revokes the token until it would have expired.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return apperr.Unauthorized("Unauthorized")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.sessionService.Revoke(ctx, claims.ID, claims.Sub, expiresAt)
}
