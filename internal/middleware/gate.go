package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/audit"
	apperrors "github.com/codegate/gate-server-go/internal/errors"
	"github.com/codegate/gate-server-go/internal/httputil"
	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/service"
	"github.com/codegate/gate-server-go/internal/util"
)

// GateMiddleware admits requests under /{code}/{domain} only while the code
// is valid. Rejections are indistinguishable from any other denial.
type GateMiddleware struct {
	gate        *service.Gate
	fallbackURL string
}

func NewGateMiddleware(gate *service.Gate, fallbackURL string) *GateMiddleware {
	return &GateMiddleware{
		gate:        gate,
		fallbackURL: fallbackURL,
	}
}

func (m *GateMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := model.AccessCode(chi.URLParam(r, "code"))
		domain := chi.URLParam(r, "domain")
		masked := util.MaskCode(code.String())

		decision := m.gate.Check(code, domain)

		log.Info().
			Str("code", masked).
			Str("domain", domain).
			Str("path", util.MaskPath(r.URL.Path)).
			Str("decision", decision.String()).
			Msg("gatekeeper")

		if decision != model.GateProceed {
			audit.LogFromRequest(r, audit.Event{
				Type:   audit.EventCodeRejected,
				Code:   masked,
				Domain: domain,
			})
			httputil.WriteError(w, r, m.fallbackURL, apperrors.InvalidCode(masked))
			return
		}

		next.ServeHTTP(w, r)
	})
}
