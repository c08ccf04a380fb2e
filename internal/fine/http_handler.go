package fine

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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
	UserID         string `json:"user_id" validate:"required"`
	BorrowedBookID string `json:"borrowed_book_id" validate:"required"`
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	Reason         string `json:"reason" validate:"required,max=500"`
}

type updateReq struct {
	Status string `json:"status" validate:"required,oneof=paid"`
}

// List handles GET /fines
// @Summary List fines with the unpaid total
// @Tags fines
// @Produce json
// @Security Bearer
// @Param user_id query string false "Librarians may filter by user"
// @Success 200 {object} httpx.SuccessResponse
// @Router /fines [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.List(r.Context(), httpx.QueryString(r, "user_id"), user.ActorFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, listing, nil)
}

// Create handles POST /fines
// @Summary Fine a student for an overdue or late book
// @Tags fines
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Fine"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /fines [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	f, err := h.service.Create(r.Context(), CreateInput{
		UserID:         req.UserID,
		BorrowedBookID: req.BorrowedBookID,
		Amount:         req.Amount,
		Reason:         req.Reason,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, f)
}

// Update handles PUT /fines/{id}
// @Summary Pay a fine
// @Tags fines
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Fine ID"
// @Param request body updateReq true "New status"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /fines/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	f, err := h.service.Pay(r.Context(), chi.URLParam(r, "id"), user.ActorFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, f, nil)
}
