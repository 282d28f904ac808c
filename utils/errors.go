package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	// ErrValidation marks a missing or malformed required field.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a uniqueness violation such as a duplicate email.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized covers bad credentials and missing, expired or malformed tokens.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	// ErrUpstream is a non-success or malformed reply from an external API.
	ErrUpstream = errors.New("upstream error")
	// ErrQuotaExceeded is an upstream error caused by exhausted quota or rate limits.
	ErrQuotaExceeded = errors.New("upstream quota exceeded")
	// ErrNotConfigured marks a missing credential for an external service.
	ErrNotConfigured = errors.New("not configured")
)

var sentinels = []error{
	ErrValidation, ErrNotConfigured, ErrConflict, ErrUnauthorized,
	ErrNotFound, ErrQuotaExceeded, ErrUpstream,
}

// PublicMessage is the client-facing text of err: the wrapped sentinel's
// own text is dropped, so "email already registered: conflict" renders as
// "email already registered". Internal errors collapse to a generic message
// so driver details never reach the client.
func PublicMessage(err error) string {
	if StatusFor(err) == http.StatusInternalServerError && !errors.Is(err, ErrUpstream) {
		return "internal server error"
	}
	msg := err.Error()
	for _, sentinel := range sentinels {
		if !errors.Is(err, sentinel) {
			continue
		}
		text := sentinel.Error()
		if msg == text {
			return msg
		}
		msg = strings.TrimSuffix(msg, ": "+text)
		msg = strings.Replace(msg, text+": ", "", 1)
	}
	return msg
}

// StatusFor maps an error to the HTTP status it should be rendered with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// HandleError renders err as {"error": PublicMessage(err)} with the status
// from StatusFor. The full error is kept on the gin context for logging.
func HandleError(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(StatusFor(err), &Response{Error: PublicMessage(err)})
}
