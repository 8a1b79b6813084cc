package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain"
	"github.com/matthewyanek/pdf-classroom-manager/internal/httputil"
)

// respondError maps domain errors to HTTP status codes and writes an
// RFC 7807 response. Unknown errors become opaque 500s.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
