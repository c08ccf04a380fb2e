package notification

import (
	"encoding/base64"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var cursorJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Cursor marks the last notification of a page.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// EncodeCursor encodes the position as an opaque URL-safe string.
func EncodeCursor(c Cursor) string {
	if c.ID == "" {
		return ""
	}
	raw, err := cursorJSON.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor reverses EncodeCursor. An empty string yields a nil cursor.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var c Cursor
	if err := cursorJSON.Unmarshal(decoded, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
