package notification

import (
	"time"

	"lms/internal/apperr"
)

// Type classifies a notification for the client.
type Type string

const (
	TypeDueReminder     Type = "due_reminder"
	TypeOverdue         Type = "overdue"
	TypeFine            Type = "fine"
	TypeRequestApproved Type = "request_approved"
	TypeRequestRejected Type = "request_rejected"
	TypeBorrow          Type = "borrow"
	TypeGeneral         Type = "general"
)

var validTypes = map[Type]bool{
	TypeDueReminder: true, TypeOverdue: true, TypeFine: true, TypeRequestApproved: true,
	TypeRequestRejected: true, TypeBorrow: true, TypeGeneral: true,
}

func (t Type) Valid() bool {
	return validTypes[t]
}

var ErrNotFound = apperr.NotFound("Notification not found")

type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Feed is one page of a user's notifications, newest first.
type Feed struct {
	Items       []Notification `json:"items"`
	NextCursor  string         `json:"next_cursor,omitempty"`
	UnreadCount int            `json:"unread_count"`
}

// ListQuery selects a page of the feed.
type ListQuery struct {
	UnreadOnly bool
	Cursor     string
	Limit      int
}
