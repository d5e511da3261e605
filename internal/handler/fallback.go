package handler

import (
	"net/http"
	"time"

	apperrors "github.com/codegate/gate-server-go/internal/errors"
	"github.com/codegate/gate-server-go/internal/httputil"
	"github.com/codegate/gate-server-go/internal/repository"
	"github.com/codegate/gate-server-go/internal/util"
)

// Fallback redirects every unmatched route to the fallback destination.
func Fallback(fallbackURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, fallbackURL, apperrors.RouteNotFound(util.MaskPath(r.URL.Path)))
	}
}

// Health reports liveness and the number of currently valid codes.
func Health(store repository.AccessCodeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"timestamp":   time.Now().UnixMilli(),
			"activeCodes": store.Count(),
		})
	}
}
