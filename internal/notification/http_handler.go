package notification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lms/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createReq struct {
	UserID      string `json:"user_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Type        string `json:"type" validate:"omitempty,oneof=due_reminder overdue fine request_approved request_rejected borrow general"`
}

// List handles GET /notifications
// @Summary List own notifications
// @Tags notifications
// @Produce json
// @Security Bearer
// @Param unread query bool false "Only unread"
// @Param cursor query string false "Cursor from the previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} httpx.SuccessResponse
// @Router /notifications [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	feed, err := h.service.List(r.Context(), httpx.UserIDFrom(r), ListQuery{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Cursor:     r.URL.Query().Get("cursor"),
		Limit:      limit,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, feed.Items, map[string]any{
		"next_cursor":  feed.NextCursor,
		"unread_count": feed.UnreadCount,
	})
}

// Create handles POST /notifications
// @Summary Send a notification to a user
// @Tags notifications
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Notification"
// @Success 201 {object} httpx.SuccessResponse
// @Router /notifications [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	n, err := h.service.Create(r.Context(), req.UserID, Type(req.Type), req.Title, req.Description)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, n)
}

// MarkRead handles PUT /notifications/{id}/read
// @Summary Mark a notification read
// @Tags notifications
// @Security Bearer
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *HTTPHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id"), httpx.UserIDFrom(r)); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// MarkAllRead handles PUT /notifications/read-all
// @Summary Mark every notification read
// @Tags notifications
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /notifications/read-all [put]
func (h *HTTPHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkAllRead(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]int64{"updated": n}, nil)
}
