package book

import (
	"net/http"

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
	Title           string `json:"title" validate:"required,max=255"`
	Author          string `json:"author" validate:"required,max=255"`
	ISBN            string `json:"isbn" validate:"required,isbn"`
	Category        string `json:"category" validate:"required,max=100"`
	Program         string `json:"program" validate:"required,program"`
	TotalCopies     int    `json:"total_copies" validate:"required,min=1"`
	AvailableCopies *int   `json:"available_copies" validate:"omitempty,min=0"`
	Description     string `json:"description" validate:"omitempty,max=4000"`
	CoverImage      string `json:"cover_image" validate:"omitempty,max=1024"`
}

type updateReq struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=255"`
	Author          *string `json:"author" validate:"omitempty,min=1,max=255"`
	ISBN            *string `json:"isbn" validate:"omitempty,isbn"`
	Category        *string `json:"category" validate:"omitempty,min=1,max=100"`
	Program         *string `json:"program" validate:"omitempty,program"`
	TotalCopies     *int    `json:"total_copies" validate:"omitempty,min=1"`
	AvailableCopies *int    `json:"available_copies" validate:"omitempty,min=0"`
	Description     *string `json:"description" validate:"omitempty,max=4000"`
	CoverImage      *string `json:"cover_image" validate:"omitempty,max=1024"`
}

func normalizedISBN(isbn *string) *string {
	if isbn == nil {
		return nil
	}
	n := httpx.NormalizeISBN(*isbn)
	return &n
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Security Bearer
// @Param program query string false "Program"
// @Param category query string false "Category"
// @Param search query string false "Title, author or ISBN substring"
// @Param title query string false "Title substring"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	params := Query{
		Program:  httpx.QueryString(r, "program"),
		Category: httpx.QueryString(r, "category"),
		Search:   httpx.QueryString(r, "search", "q"),
		Title:    httpx.QueryString(r, "title"),
		Limit:    page.Size,
		Offset:   page.Offset,
	}

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, httpx.PageMeta(page.Page, page.Size, total))
}

// Get handles GET /books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.service.Create(r.Context(), CreateInput{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            httpx.NormalizeISBN(req.ISBN),
		Category:        req.Category,
		Program:         req.Program,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
		Description:     req.Description,
		CoverImage:      req.CoverImage,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /books/{id}
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Param request body updateReq true "Fields to change"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            normalizedISBN(req.ISBN),
		Category:        req.Category,
		Program:         req.Program,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
		Description:     req.Description,
		CoverImage:      req.CoverImage,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id}
// @Summary Delete a book
// @Tags books
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
