package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/audit"
	"github.com/codegate/gate-server-go/internal/httputil"
	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/util"
)

// RevocationScheduler arms the delayed removal of a code.
type RevocationScheduler interface {
	ArmRevocation(code model.AccessCode, delay time.Duration)
}

// SiteHandler serves gated content. It assumes the gate middleware has
// already admitted the request.
type SiteHandler struct {
	site        *ProtectedSite
	scheduler   RevocationScheduler
	expiry      time.Duration
	fallbackURL string
}

func NewSiteHandler(site *ProtectedSite, scheduler RevocationScheduler, expiry time.Duration, fallbackURL string) *SiteHandler {
	return &SiteHandler{
		site:        site,
		scheduler:   scheduler,
		expiry:      expiry,
		fallbackURL: fallbackURL,
	}
}

func (h *SiteHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(Fallback(h.fallbackURL))
	r.MethodNotAllowed(Fallback(h.fallbackURL))

	r.Get("/", h.Entry)
	r.Get("/*", h.Asset)

	return r
}

// Entry serves the entry document and arms the code's revocation once the
// transfer attempt has finished, whether or not the client stayed connected.
func (h *SiteHandler) Entry(w http.ResponseWriter, r *http.Request) {
	code := model.AccessCode(chi.URLParam(r, "code"))
	domain := chi.URLParam(r, "domain")
	masked := util.MaskCode(code.String())

	log.Info().
		Str("code", masked).
		Str("domain", domain).
		Str("path", util.MaskPath(r.URL.Path)).
		Msg("serving entry document")

	if err := h.site.ServeEntry(w, r); err != nil {
		httputil.WriteError(w, r, h.fallbackURL, err)
		return
	}

	h.scheduler.ArmRevocation(code, h.expiry)

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventEntryServed,
		Code:   masked,
		Domain: domain,
		Details: map[string]interface{}{
			"expiresIn": h.expiry,
		},
	})
}

// Asset serves a file below the content root. Assets never extend a code's
// lifetime; the entry document requested by name is handled as Entry.
func (h *SiteHandler) Asset(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if rel == "" || h.site.IsEntry(rel) {
		h.Entry(w, r)
		return
	}

	log.Debug().
		Str("code", util.MaskCode(chi.URLParam(r, "code"))).
		Str("domain", chi.URLParam(r, "domain")).
		Str("asset", rel).
		Msg("serving protected asset")

	if err := h.site.ServeAsset(w, r, rel); err != nil {
		httputil.WriteError(w, r, h.fallbackURL, err)
	}
}
