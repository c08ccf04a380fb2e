package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/internal/apperr"
	"lms/internal/httpx"
	"lms/internal/platform/crypto"
)

func TestService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	t.Run("creates student with hashed password", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "asha").Return(User{}, ErrNotFound)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *User) error {
			assert.True(t, strings.HasPrefix(u.ID, "usr-"))
			assert.True(t, crypto.VerifyPassword(u.PasswordHash, "Library#2024"))
			return nil
		})

		u, err := service.Register(context.Background(), RegisterInput{
			Username: " asha ", Password: "Library#2024", Email: "asha@uni.edu", FullName: "Asha Rai", Program: "MBA",
		})
		require.NoError(t, err)
		assert.Equal(t, "asha", u.Username)
		assert.Equal(t, RoleStudent, u.Role)
		assert.Equal(t, "MBA", u.Program)
	})

	t.Run("duplicate username", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "asha").Return(User{ID: "usr-1"}, nil)

		_, err := service.Register(context.Background(), RegisterInput{Username: "asha", Password: "Library#2024"})
		assert.True(t, apperr.Is(err, apperr.ErrAlreadyExists))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterInput{Username: "x", Role: "dean"})
		assert.True(t, apperr.Is(err, apperr.ErrValidation))
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		boom := errors.New("db down")
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "bo").Return(User{}, boom)

		_, err := service.Register(context.Background(), RegisterInput{Username: "bo", Password: "Library#2024"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestHTTPHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	body := `{"username":"asha","password":"Library#2024","email":"asha@uni.edu","full_name":"Asha Rai"}`

	t.Run("created", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "asha").Return(User{}, ErrNotFound)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("conflict", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "asha").Return(User{ID: "usr-1"}, nil)

		w := httptest.NewRecorder()
		handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"a"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"username"`)
	})

	t.Run("librarian requires librarian caller", func(t *testing.T) {
		lib := `{"username":"lib","password":"Library#2024","email":"lib@uni.edu","full_name":"Head Librarian","role":"librarian"}`

		w := httptest.NewRecorder()
		handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(lib)))
		assert.Equal(t, http.StatusForbidden, w.Code)

		mockRepo.EXPECT().GetByUsername(gomock.Any(), "lib").Return(User{}, ErrNotFound)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(lib))
		r = r.WithContext(httpx.ContextWithUser(r.Context(), "usr-admin", RoleLibrarian))
		w = httptest.NewRecorder()
		handler.Register(w, r)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestHTTPHandler_GetCurrentUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mockRepo.EXPECT().GetByID(gomock.Any(), "usr-1").Return(User{ID: "usr-1", Username: "asha", Role: RoleStudent}, nil)

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r = r.WithContext(httpx.ContextWithUser(r.Context(), "usr-1", RoleStudent))
	w := httptest.NewRecorder()
	handler.GetCurrentUser(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"asha"`)

	w = httptest.NewRecorder()
	handler.GetCurrentUser(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
