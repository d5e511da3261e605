package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/audit"
	apperrors "github.com/codegate/gate-server-go/internal/errors"
	"github.com/codegate/gate-server-go/internal/httputil"
	"github.com/codegate/gate-server-go/internal/service"
)

// ReputationMiddleware turns away anonymized clients before code issuance.
// Lookup failures never block the request.
type ReputationMiddleware struct {
	guard       *service.ReputationGuard
	fallbackURL string
}

func NewReputationMiddleware(guard *service.ReputationGuard, fallbackURL string) *ReputationMiddleware {
	return &ReputationMiddleware{
		guard:       guard,
		fallbackURL: fallbackURL,
	}
}

func (m *ReputationMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := httputil.ClientIP(r)
		verdict := m.guard.Screen(r.Context(), ip)

		if verdict.Err != nil {
			log.Warn().Err(verdict.Err).Str("ip", ip).Msg("reputation check failed, allowing request")
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventReputationFailed,
				Details: map[string]interface{}{"error": verdict.Err.Error()},
			})
		}

		if !verdict.Allowed {
			event := audit.Event{Type: audit.EventReputationBlocked}
			if rep := verdict.Reputation; rep != nil && rep.Privacy != nil {
				event.Details = map[string]interface{}{
					"vpn":   rep.Privacy.VPN,
					"proxy": rep.Privacy.Proxy,
					"tor":   rep.Privacy.Tor,
					"relay": rep.Privacy.Relay,
				}
			}
			audit.LogFromRequest(r, event)
			httputil.WriteError(w, r, m.fallbackURL, apperrors.AccessDenied())
			return
		}

		next.ServeHTTP(w, r)
	})
}
