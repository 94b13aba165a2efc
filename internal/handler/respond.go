package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps an application error onto the wire. Unknown errors
// surface as internal_error without leaking internals; not-found is an
// expected outcome and logged at debug only.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	message := "internal error"
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if kind == apperr.KindNotFound {
		slog.Debug("lookup missed", "error", err)
	} else {
		slog.Error("request failed", "error", err, "kind", kind.Code())
	}

	writeJSON(w, kind.HTTPStatus(), model.ErrorResponse{
		Error:   kind.Code(),
		Message: message,
	})
}
