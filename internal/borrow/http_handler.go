package borrow

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lms/internal/apperr"
	"lms/internal/httpx"
	"lms/internal/user"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionCancel  = "cancel"
	ActionRenew   = "renew"
	ActionReturn  = "return"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type issueReq struct {
	UserID  string `json:"user_id"`
	BookID  string `json:"book_id" validate:"required"`
	DueDate string `json:"due_date"`
	Remarks string `json:"remarks" validate:"max=500"`
}

type transitionReq struct {
	Action        string `json:"action" validate:"required,oneof=approve reject cancel renew return"`
	ExtensionDays int    `json:"extension_days" validate:"min=0,max=60"`
	Remarks       string `json:"remarks" validate:"max=500"`
}

// parseDate accepts RFC 3339 timestamps and plain dates, which end the day.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, apperr.ValidationFields("Invalid due date", []apperr.FieldError{
			{Field: "due_date", Message: "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"},
		})
	}
	t = t.Add(24*time.Hour - time.Second)
	return &t, nil
}

func queryFrom(r *http.Request, page httpx.Page) Query {
	return Query{
		UserID:  httpx.QueryString(r, "user_id"),
		BookID:  httpx.QueryString(r, "book_id"),
		Search:  httpx.QueryString(r, "search"),
		Status:  Status(httpx.QueryString(r, "status")),
		Program: httpx.QueryString(r, "program"),
		Limit:   page.Size,
		Offset:  page.Offset,
	}
}

// List handles GET /borrows
// @Summary List borrow records
// @Description Students only see their own records.
// @Tags borrows
// @Produce json
// @Security Bearer
// @Param status query string false "pending, borrowed, overdue or returned"
// @Param search query string false "Book title, student name or student id"
// @Success 200 {object} httpx.SuccessResponse
// @Router /borrows [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	items, total, err := h.service.List(r.Context(), queryFrom(r, page), user.ActorFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, items, httpx.PageMeta(page.Page, page.Size, total))
}

// ListForStudent handles GET /students/{id}/borrows
// @Summary List a student's borrow records
// @Tags students
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /students/{id}/borrows [get]
func (h *HTTPHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	actor := user.ActorFrom(r)
	studentID := chi.URLParam(r, "id")
	if !actor.CanAccess(studentID) {
		httpx.WriteError(w, r, apperr.Forbidden("You can only view your own borrow records"))
		return
	}

	page := httpx.ParsePage(r)
	q := queryFrom(r, page)
	q.UserID = studentID
	items, total, err := h.service.List(r.Context(), q, actor)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, items, httpx.PageMeta(page.Page, page.Size, total))
}

// Get handles GET /borrows/{id}
// @Summary Get a borrow record
// @Tags borrows
// @Produce json
// @Security Bearer
// @Param id path string true "Borrow ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /borrows/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), user.ActorFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}

// Issue handles POST /borrows
// @Summary Issue or reserve a book
// @Description Librarians issue directly to user_id; students reserve for themselves and wait for approval.
// @Tags borrows
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body issueReq true "Issue request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /borrows [post]
func (h *HTTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	actor := user.ActorFrom(r)
	in := IssueInput{BookID: req.BookID, DueDate: due, Remarks: req.Remarks}
	if actor.IsLibrarian() {
		if req.UserID == "" {
			httpx.WriteError(w, r, apperr.ValidationFields("Missing required fields", []apperr.FieldError{
				{Field: "user_id", Message: "This field is required"},
			}))
			return
		}
		in.UserID = req.UserID
		in.LibrarianID = actor.ID
	} else {
		in.UserID = actor.ID
		in.DueDate = nil
	}

	rec, err := h.service.Issue(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, rec)
}

// Transition handles PUT /borrows/{id}
// @Summary Approve, reject, cancel, renew or return a borrow record
// @Description approve, reject and return are librarian actions; students may renew their own loans and cancel their own reservations.
// @Tags borrows
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Borrow ID"
// @Param request body transitionReq true "Action"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /borrows/{id} [put]
func (h *HTTPHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req transitionReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	actor := user.ActorFrom(r)
	studentAction := req.Action == ActionRenew || req.Action == ActionCancel
	if !studentAction && !actor.IsLibrarian() {
		httpx.WriteError(w, r, apperr.Forbidden("Only librarians can "+req.Action+" borrow records"))
		return
	}

	var (
		rec Record
		err error
	)
	switch req.Action {
	case ActionApprove:
		rec, err = h.service.Approve(r.Context(), id, actor.ID)
	case ActionReject, ActionCancel:
		rec, err = h.service.Cancel(r.Context(), id, actor, req.Remarks)
	case ActionRenew:
		rec, err = h.service.Renew(r.Context(), id, actor, time.Duration(req.ExtensionDays)*24*time.Hour)
	case ActionReturn:
		rec, err = h.service.Return(r.Context(), id)
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}
