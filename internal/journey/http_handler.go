package journey

import (
	"net/http"

	"bookjourney/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Get handles GET /books/{id}/journey
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetJourneyStatistics(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}
