package service

import (
	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/repository"
)

// Gate decides whether a request carrying a code may reach protected content.
type Gate struct {
	store repository.AccessCodeRepository
}

func NewGate(store repository.AccessCodeRepository) *Gate {
	return &Gate{store: store}
}

// Check looks the code up verbatim. The domain segment is accepted for
// symmetry with the URL shape but never influences the decision.
func (g *Gate) Check(code model.AccessCode, domain string) model.GateDecision {
	if code == "" {
		return model.GateReject
	}
	if g.store.Contains(code) {
		return model.GateProceed
	}
	return model.GateReject
}
