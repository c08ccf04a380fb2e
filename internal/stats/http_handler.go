package stats

import (
	"net/http"

	"lms/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Library handles GET /analytics/stats
// @Summary Library dashboard counts
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /analytics/stats [get]
func (h *HTTPHandler) Library(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.LibraryStats(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// Programs handles GET /analytics/program-stats
// @Summary Books per program
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /analytics/program-stats [get]
func (h *HTTPHandler) Programs(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ProgramStats(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// Trends handles GET /analytics/borrowing-trends
// @Summary Loans issued per month
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /analytics/borrowing-trends [get]
func (h *HTTPHandler) Trends(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.BorrowingTrends(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// Borrows handles GET /analytics/borrow-stats
// @Summary Borrowed, overdue, pending and due-soon counts
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /analytics/borrow-stats [get]
func (h *HTTPHandler) Borrows(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.BorrowedBookStats(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// Students handles GET /students
// @Summary Students with borrowing activity
// @Tags students
// @Produce json
// @Security Bearer
// @Param search query string false "Name, username, email or student id"
// @Param program query string false "Program"
// @Success 200 {object} httpx.SuccessResponse
// @Router /students [get]
func (h *HTTPHandler) Students(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Students(r.Context(), StudentQuery{
		Search:  httpx.QueryString(r, "search"),
		Program: httpx.QueryString(r, "program"),
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}
