package user

import (
	"context"
	"strings"

	"lms/internal/apperr"
	"lms/internal/id"
	"lms/internal/platform/crypto"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account. Role defaults to student.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Role == "" {
		in.Role = RoleStudent
	}
	if in.Role != RoleStudent && in.Role != RoleLibrarian {
		return User{}, apperr.Validationf("unknown role %q", in.Role)
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return User{}, ErrAlreadyExists
	} else if !apperr.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	userID, err := id.Generate(id.User)
	if err != nil {
		return User{}, err
	}

	u := &User{
		ID:           userID,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		Email:        strings.TrimSpace(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		Program:      strings.TrimSpace(in.Program),
		StudentID:    strings.TrimSpace(in.StudentID),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}
