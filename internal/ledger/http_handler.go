package ledger

import (
	"net/http"
	"strconv"

	"bookjourney/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type reportReq struct {
	Type        string   `json:"type" validate:"max=16"`
	GuestName   string   `json:"guest_name" validate:"max=100"`
	Comment     string   `json:"comment" validate:"max=2000"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	City        string   `json:"city" validate:"max=200"`
	Country     string   `json:"country" validate:"max=200"`
	Attachments []string `json:"attachments" validate:"max=10,dive,max=2048"`
}

// Report handles POST /books/{id}/events. An unknown book is reported as 404
// before the body is read.
func (h *HTTPHandler) Report(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if err := h.service.RequireBook(r.Context(), bookID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req reportReq
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	ev, err := h.service.ReportCustody(r.Context(), bookID, ReportParams{
		Type:        req.Type,
		Actor:       httpx.ResolveActor(r, req.GuestName),
		Comment:     req.Comment,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		City:        req.City,
		Country:     req.Country,
		Attachments: req.Attachments,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, ev)
}

// List handles GET /books/{id}/events?cursor=...&limit=...
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	page, err := h.service.Page(r.Context(), r.PathValue("id"), query.Get("cursor"), limit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	meta := map[string]interface{}{"count": len(page.Events)}
	if page.NextCursor != "" {
		meta["next_cursor"] = page.NextCursor
	}
	httpx.JSONSuccess(w, r, page.Events, meta)
}

// Status handles GET /books/{id}/status
func (h *HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	status, err := h.service.CurrentStatus(r.Context(), bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"book_id": bookID, "status": string(status)}, nil)
}

// ListByActor handles GET /actors/{name}/events
func (h *HTTPHandler) ListByActor(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.service.ListByActor(r.Context(), r.PathValue("name"), limit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httpx.JSONSuccess(w, r, events, map[string]interface{}{"count": len(events)})
}
