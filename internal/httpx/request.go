package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"lms/internal/apperr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DecodeJSON decodes the request body into dst and validates it.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required")
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("Request body too large")
		}
		return apperr.Wrap(err, apperr.CodeValidation, "Invalid request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return apperr.Validation("Request body is required")
	}
	if err := jsonAPI.Unmarshal(body, dst); err != nil {
		return apperr.Wrap(err, apperr.CodeValidation, "Invalid request body")
	}
	return Validate(dst)
}

// Page is a parsed page/size pair.
type Page struct {
	Page   int
	Size   int
	Offset int
}

// ParsePage reads page and size (or page_size) query parameters.
func ParsePage(r *http.Request) Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	raw := q.Get("size")
	if raw == "" {
		raw = q.Get("page_size")
	}
	size, _ := strconv.Atoi(raw)
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return Page{Page: page, Size: size, Offset: (page - 1) * size}
}

// QueryString returns a trimmed query parameter, trying each key in order.
func QueryString(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}
