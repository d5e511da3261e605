package httputil

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/codegate/gate-server-go/internal/errors"
	"github.com/codegate/gate-server-go/internal/util"
)

const internalErrorMessage = "Internal server error"

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the only error body clients ever see
type ErrorResponse struct {
	Error string `json:"error"`
}

// Redirect sends the client to the fallback destination.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

// WriteInternalError writes the generic 500 body
func WriteInternalError(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
}

// WriteError maps an error onto one of the opaque client outcomes: deny
// errors redirect to fallbackURL, access-denied answers 403 or redirects
// depending on the client, anything else is a generic 500. The cause is
// logged and never written.
func WriteError(w http.ResponseWriter, r *http.Request, fallbackURL string, err error) {
	code := apperrors.GetCode(err)
	logger := log.With().
		Str("method", r.Method).
		Str("path", util.MaskPath(r.URL.Path)).
		Str("errorCode", string(code)).
		Logger()

	switch {
	case apperrors.IsDeny(err):
		logger.Info().Err(err).Msg("request denied, redirecting to fallback")
		Redirect(w, r, fallbackURL)
	case code == apperrors.ErrCodeAccessDenied:
		logger.Warn().Err(err).Msg("access denied")
		if WantsJSON(r) {
			WriteJSON(w, http.StatusForbidden, ErrorResponse{Error: "Access denied"})
			return
		}
		Redirect(w, r, fallbackURL)
	default:
		logger.Error().Err(err).Msg("internal server error")
		WriteInternalError(w)
	}
}

// WantsJSON reports whether the request came from a script rather than a
// browser navigation.
func WantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// ClientIP returns the remote host without port. When a proxy-aware
// middleware has already rewritten RemoteAddr it is honored as-is.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
