package fine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"lms/internal/borrow"
	"lms/internal/httpx"
	"lms/internal/logger"
	"lms/internal/user"
)

func TestPolicy_Amount(t *testing.T) {
	p := Policy{Mode: ModePerDiem, PerDiemRate: 50}
	assert.Equal(t, int64(0), p.Amount(0))
	assert.Equal(t, int64(0), p.Amount(-2))
	assert.Equal(t, int64(50), p.Amount(1))
	assert.Equal(t, int64(350), p.Amount(7))
}

func TestService_AccruedSoFar(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	due := now.Add(-50 * time.Hour)
	rec := borrow.Record{Status: borrow.StatusBorrowed, DueDate: &due}

	manual := NewService(nil, nil, Policy{}, nil, logger.Discard().Logger)
	assert.Equal(t, ModeManual, manual.Policy().Mode)
	assert.Equal(t, int64(0), manual.AccruedSoFar(rec, now))

	perDiem := NewService(nil, nil, Policy{Mode: ModePerDiem, PerDiemRate: 10}, nil, logger.Discard().Logger)
	assert.Equal(t, int64(30), perDiem.AccruedSoFar(rec, now))
}

func TestHTTPHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo, NewMockRecords(ctrl), Policy{}, nil, logger.Discard().Logger))

	request := func(body, userID, role string) *http.Request {
		r := httptest.NewRequest(http.MethodPut, "/fines/fine-1", strings.NewReader(body))
		r = r.WithContext(httpx.ContextWithUser(r.Context(), userID, role))
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "fine-1")
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("pays own fine", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "fine-1").Return(Fine{ID: "fine-1", UserID: "usr-1", Status: StatusPending}, nil)
		mockRepo.EXPECT().Pay(gomock.Any(), "fine-1", gomock.Any()).Return(Fine{ID: "fine-1", UserID: "usr-1", Status: StatusPaid}, nil)

		w := httptest.NewRecorder()
		handler.Update(w, request(`{"status":"paid"}`, "usr-1", user.RoleStudent))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"paid"`)
	})

	t.Run("someone else's fine", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "fine-1").Return(Fine{ID: "fine-1", UserID: "usr-2", Status: StatusPending}, nil)

		w := httptest.NewRecorder()
		handler.Update(w, request(`{"status":"paid"}`, "usr-1", user.RoleStudent))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("only paid is accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Update(w, request(`{"status":"waived"}`, "usr-lib", user.RoleLibrarian))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
