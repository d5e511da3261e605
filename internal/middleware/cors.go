package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/cors"

	"github.com/codegate/gate-server-go/internal/config"
)

var (
	corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsAllowedHeaders = []string{"Content-Type", "Authorization", "Accept"}
)

// CORSMiddleware reflects any origin with credentials. Every OPTIONS request
// is answered here so it never reaches the gate or the fallback redirect.
type CORSMiddleware struct {
	cors *cors.Cors
}

func NewCORSMiddleware() *CORSMiddleware {
	return &CORSMiddleware{
		cors: cors.New(cors.Options{
			AllowOriginFunc:      func(string) bool { return true },
			AllowedMethods:       corsAllowedMethods,
			AllowedHeaders:       corsAllowedHeaders,
			AllowCredentials:     true,
			MaxAge:               config.CORSMaxAge,
			OptionsSuccessStatus: http.StatusOK,
		}),
	}
}

func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return m.cors.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			acknowledgeOptions(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// acknowledgeOptions answers OPTIONS requests that are not CORS preflights.
func acknowledgeOptions(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", strings.Join(corsAllowedMethods, ","))
	h.Set("Access-Control-Allow-Headers", strings.Join(corsAllowedHeaders, ","))
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Max-Age", strconv.Itoa(config.CORSMaxAge))
	w.WriteHeader(http.StatusOK)
}
