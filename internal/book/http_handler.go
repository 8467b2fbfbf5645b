package book

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"bookjourney/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createBookReq struct {
	ISBN        string `json:"isbn" validate:"max=32"`
	Title       string `json:"title" validate:"max=500"`
	Author      string `json:"author" validate:"max=300"`
	Description string `json:"description" validate:"max=5000"`
	CoverURL    string `json:"cover_url" validate:"omitempty,url,max=2048"`
	GuestName   string `json:"guest_name" validate:"max=100"`
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookReq
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.service.Create(r.Context(), NewParams{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Creator:     httpx.ResolveActor(r, req.GuestName),
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Label handles GET /books/{id}/qr and serves the printable QR image.
func (h *HTTPHandler) Label(w http.ResponseWriter, r *http.Request) {
	size := DefaultLabelSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "size must be an integer", nil)
			return
		}
		size = n
	}

	png, err := h.service.Label(r.Context(), r.PathValue("id"), size)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(png); err != nil {
		log.Printf("writing label failed: book_id=%s error=%v", r.PathValue("id"), err)
	}
}

// ResolveLabel handles GET /labels/{code}
func (h *HTTPHandler) ResolveLabel(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByLabel(r.Context(), r.PathValue("code"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// List handles GET /books?creator=... or GET /books?isbn=...
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		books []Book
		err   error
	)
	switch {
	case query.Get("isbn") != "":
		books, err = h.service.ListByISBN(r.Context(), query.Get("isbn"))
	case query.Get("creator") != "":
		limit, _ := strconv.Atoi(query.Get("limit"))
		books, err = h.service.ListByCreator(r.Context(), query.Get("creator"), limit)
	default:
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "isbn or creator query parameter is required", nil)
		return
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSONSuccess(w, r, books, map[string]interface{}{"total": len(books)})
}

// Lookup handles GET /metadata/{isbn}
func (h *HTTPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.PathValue("isbn"))
	md, err := h.service.Lookup(r.Context(), raw)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, md, nil)
}
