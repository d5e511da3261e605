package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/config"
	apperrors "github.com/codegate/gate-server-go/internal/errors"
	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/repository"
	"github.com/codegate/gate-server-go/internal/util"
)

// CodeIssuer mints single-use access codes
type CodeIssuer struct {
	store repository.AccessCodeRepository
}

// NewCodeIssuer creates a new code issuer
func NewCodeIssuer(store repository.AccessCodeRepository) *CodeIssuer {
	return &CodeIssuer{store: store}
}

// Issue generates a fresh code, registers it as valid and returns it
func (s *CodeIssuer) Issue(ctx context.Context) (model.AccessCode, error) {
	var code model.AccessCode
	for attempts := 0; attempts < config.CodeGenerateAttempts; attempts++ {
		token, err := util.GenerateToken(config.CodeBytes)
		if err != nil {
			return "", apperrors.Internal("Failed to generate code").WithCause(err)
		}
		if !s.store.Contains(model.AccessCode(token)) {
			code = model.AccessCode(token)
			break
		}
	}
	if code == "" {
		return "", apperrors.Internal("Failed to generate unique code")
	}

	s.store.Insert(code)

	log.Info().
		Str("code", util.MaskCode(code.String())).
		Int("activeCodes", s.store.Count()).
		Msg("access code issued")

	return code, nil
}
