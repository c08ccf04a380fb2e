package notification

import (
	"context"
	"strings"

	"lms/internal/apperr"
	"lms/internal/id"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify appends a notification to the user's feed.
func (s *Service) Notify(ctx context.Context, userID string, kind Type, title, description string) error {
	_, err := s.Create(ctx, userID, kind, title, description)
	return err
}

// Create stores a notification and returns it.
func (s *Service) Create(ctx context.Context, userID string, kind Type, title, description string) (Notification, error) {
	if kind == "" {
		kind = TypeGeneral
	}
	if !kind.Valid() {
		return Notification{}, apperr.Validationf("unknown notification type %q", kind)
	}
	n := Notification{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Type:        kind,
	}
	if n.UserID == "" || n.Title == "" {
		return Notification{}, apperr.Validation("user_id and title are required")
	}

	var err error
	if n.ID, err = id.Generate(id.Notification); err != nil {
		return Notification{}, err
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// List returns one page of the user's feed with the unread count.
func (s *Service) List(ctx context.Context, userID string, q ListQuery) (Feed, error) {
	after, err := DecodeCursor(q.Cursor)
	if err != nil {
		return Feed{}, apperr.Validation("Invalid cursor")
	}
	limit := q.Limit
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	items, err := s.repo.List(ctx, userID, q.UnreadOnly, after, limit+1)
	if err != nil {
		return Feed{}, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return Feed{}, err
	}

	feed := Feed{Items: items, UnreadCount: unread}
	if len(items) > limit {
		feed.Items = items[:limit]
		last := feed.Items[limit-1]
		feed.NextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	if feed.Items == nil {
		feed.Items = []Notification{}
	}
	return feed, nil
}

// MarkRead marks one of the user's notifications read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
