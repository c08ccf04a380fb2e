package user

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

type registerReq struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,password_strength"`
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name" validate:"required,max=120"`
	Role      string `json:"role" validate:"omitempty,oneof=student librarian"`
	Program   string `json:"program" validate:"omitempty,program"`
	StudentID string `json:"student_id" validate:"omitempty,max=32"`
}

func (req registerReq) input() RegisterInput {
	return RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      req.Role,
		Program:   req.Program,
		StudentID: req.StudentID,
	}
}

// Register handles POST /auth/register
// @Summary Register a new account
// @Description Anyone may register a student; creating a librarian requires a librarian token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerReq true "Registration request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /auth/register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.Role == RoleLibrarian && httpx.RoleFrom(r) != RoleLibrarian {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Only librarians can create librarian accounts", nil)
		return
	}

	u, err := h.service.Register(r.Context(), req.input())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, u)
}

// CreateStudent handles POST /students
// @Summary Add a student account
// @Tags students
// @Security Bearer
// @Router /students [post]
func (h *HTTPHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	in := req.input()
	in.Role = RoleStudent

	u, err := h.service.Register(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, u)
}

// GetCurrentUser handles GET /users/me
// @Summary Get current user
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /users/me [get]
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// ActorFrom returns the authenticated caller of r.
func ActorFrom(r *http.Request) Actor {
	return Actor{ID: httpx.UserIDFrom(r), Role: httpx.RoleFrom(r)}
}
