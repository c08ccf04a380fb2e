package request

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lms/internal/apperr"
	"lms/internal/httpx"
	"lms/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createReq struct {
	BookID string `json:"book_id" validate:"required"`
}

type decideReq struct {
	Status  string     `json:"status" validate:"required,oneof=approved rejected"`
	DueDate *time.Time `json:"due_date"`
}

// List handles GET /book-requests
// @Summary List book requests
// @Tags book-requests
// @Produce json
// @Security Bearer
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} httpx.SuccessResponse
// @Router /book-requests [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), Query{
		UserID: httpx.QueryString(r, "user_id"),
		BookID: httpx.QueryString(r, "book_id"),
		Status: Status(httpx.QueryString(r, "status")),
	}, user.ActorFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, items, nil)
}

// Create handles POST /book-requests
// @Summary Request a book
// @Tags book-requests
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /book-requests [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	out, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), req.BookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, out)
}

// Decide handles PUT /book-requests/{id}
// @Summary Approve or reject a book request
// @Tags book-requests
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Request ID"
// @Param request body decideReq true "Decision"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /book-requests/{id} [put]
func (h *HTTPHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decideReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	librarianID := httpx.UserIDFrom(r)

	var (
		out Request
		err error
	)
	switch Status(req.Status) {
	case StatusApproved:
		out, err = h.service.Approve(r.Context(), id, librarianID, req.DueDate)
	case StatusRejected:
		out, err = h.service.Reject(r.Context(), id, librarianID)
	default:
		err = apperr.Validationf("unknown status %q", req.Status)
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}
