package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lms/internal/book"
	"lms/internal/id"
	"lms/internal/memstore"
	"lms/internal/platform/crypto"
	"lms/internal/user"
)

const TestSecret = "test-secret-key-for-lms"

// Clock is a settable time source for services and the memstore.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// SeedStudent stores a student account in the memstore.
func SeedStudent(t testing.TB, store *memstore.Store, username, fullName, program string) user.User {
	t.Helper()
	u := user.User{
		ID:        id.MustGenerate(id.User),
		Username:  username,
		Role:      user.RoleStudent,
		Email:     username + "@uni.edu",
		FullName:  fullName,
		Program:   program,
		StudentID: "S-" + username,
	}
	if err := store.Users().Create(context.Background(), &u); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return u
}

// SeedLibrarian stores a librarian account in the memstore.
func SeedLibrarian(t testing.TB, store *memstore.Store, username string) user.User {
	t.Helper()
	u := user.User{
		ID:       id.MustGenerate(id.User),
		Username: username,
		Role:     user.RoleLibrarian,
		Email:    username + "@uni.edu",
		FullName: "Librarian " + username,
	}
	if err := store.Users().Create(context.Background(), &u); err != nil {
		t.Fatalf("seed librarian: %v", err)
	}
	return u
}

// SeedBook stores a book with every copy available.
func SeedBook(t testing.TB, store *memstore.Store, title, program string, copies int) book.Book {
	t.Helper()
	b := book.Book{
		ID:              id.MustGenerate(id.Book),
		Title:           title,
		Author:          "Author of " + title,
		ISBN:            id.MustGenerate("isbn"),
		Category:        "General",
		Program:         program,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
	if err := store.Books().Create(context.Background(), &b); err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return b
}

// GenerateTestToken generates a JWT token for testing
func GenerateTestToken(secret, userID, role string) string {
	token, _, _ := crypto.GenerateToken(secret, userID, role, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired JWT token for testing
func GenerateExpiredToken(secret, userID, role string) string {
	c := crypto.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    crypto.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with JWT auth for testing
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// Data returns the envelope's data object, or nil.
func (r RecordResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

// ErrorCode returns the envelope's error code, or "".
func (r RecordResponse) ErrorCode() string {
	e, _ := r.Body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
