package httpx

import (
	"errors"
	"log"
	"net/http"

	"bookjourney/internal/apperr"
)

// WriteError maps core errors onto the JSON error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperr.ValidationError
	var nf *apperr.NotFoundError
	switch {
	case errors.As(err, &ve):
		JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", ve.Reason, []ErrorDetail{
			{Field: ve.Field, Message: ve.Reason},
		})
	case errors.As(err, &nf):
		JSONError(w, r, http.StatusNotFound, "NOT_FOUND", nf.Error(), nil)
	default:
		log.Printf("internal error: request_id=%s path=%s error=%v", RequestIDFrom(r), r.URL.Path, err)
		JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
