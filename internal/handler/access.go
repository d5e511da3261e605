package handler

import (
	"net/http"

	"github.com/codegate/gate-server-go/internal/audit"
	"github.com/codegate/gate-server-go/internal/httputil"
	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/service"
	"github.com/codegate/gate-server-go/internal/util"
)

type AccessHandler struct {
	issuer      *service.CodeIssuer
	fallbackURL string
}

func NewAccessHandler(issuer *service.CodeIssuer, fallbackURL string) *AccessHandler {
	return &AccessHandler{
		issuer:      issuer,
		fallbackURL: fallbackURL,
	}
}

// GenerateLink issues a new access code. Reputation screening happens in
// middleware before this runs.
func (h *AccessHandler) GenerateLink(w http.ResponseWriter, r *http.Request) {
	code, err := h.issuer.Issue(r.Context())
	if err != nil {
		httputil.WriteError(w, r, h.fallbackURL, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type: audit.EventCodeIssued,
		Code: util.MaskCode(code.String()),
	})

	writeJSON(w, http.StatusOK, model.IssuedCode{Code: code})
}
