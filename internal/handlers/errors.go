package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sairajtravels/site-api/internal/models"
	pkghttp "github.com/sairajtravels/site-api/pkg/http"
)

// writeServiceError maps service-layer errors to HTTP responses. Anything
// outside the known sentinels becomes an opaque 500 so internal details
// never reach the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		// Login failures are reported as 400 with the generic message,
		// matching what the admin panel expects.
		pkghttp.WriteBadRequest(w, "Invalid username or password")
	case errors.Is(err, models.ErrTokenInvalid):
		pkghttp.WriteBadRequest(w, "Invalid or expired token")
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, userFacingMessage(err))
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteError(w, http.StatusConflict, "Resource already exists")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Unauthorized")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden")
	default:
		pkghttp.WriteInternalError(w, "Something went wrong, please try again later")
	}
}

// userFacingMessage strips the wrapped sentinel suffix so responses read
// like "current password is incorrect" rather than "... : bad request".
func userFacingMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{models.ErrValidation, models.ErrBadRequest} {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	if msg == "" || msg == models.ErrValidation.Error() || msg == models.ErrBadRequest.Error() {
		return "Invalid request"
	}
	return capitalize(msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
