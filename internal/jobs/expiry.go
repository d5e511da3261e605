package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/audit"
	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/repository"
	"github.com/codegate/gate-server-go/internal/util"
)

type revocation struct {
	code  model.AccessCode
	timer *time.Timer
}

// ExpiryScheduler revokes codes a fixed delay after their entry document was
// delivered. Every ArmRevocation call starts an independent timer; repeated
// arms for one code are not merged, and all of them converge on a single
// removal because the store reports whether the code was still present.
type ExpiryScheduler struct {
	store repository.AccessCodeRepository

	mu      sync.Mutex
	pending map[uint64]revocation
	nextID  uint64
	stopped bool
	wg      sync.WaitGroup
}

func NewExpiryScheduler(store repository.AccessCodeRepository) *ExpiryScheduler {
	return &ExpiryScheduler{
		store:   store,
		pending: make(map[uint64]revocation),
	}
}

// ArmRevocation schedules removal of code after delay. It is a no-op once the
// scheduler has been stopped.
func (s *ExpiryScheduler) ArmRevocation(code model.AccessCode, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		log.Warn().Str("code", util.MaskCode(code.String())).Msg("expiry scheduler stopped, revocation not armed")
		return
	}

	s.nextID++
	id := s.nextID
	s.wg.Add(1)
	timer := time.AfterFunc(delay, func() { s.fire(id, code, delay) })
	s.pending[id] = revocation{code: code, timer: timer}

	log.Info().
		Str("code", util.MaskCode(code.String())).
		Dur("delay", delay).
		Int("pending", s.pendingLocked(code)).
		Msg("code revocation armed")
}

func (s *ExpiryScheduler) fire(id uint64, code model.AccessCode, delay time.Duration) {
	defer s.wg.Done()

	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()

	removed := s.store.Remove(code)
	masked := util.MaskCode(code.String())
	if removed {
		log.Info().Str("code", masked).Msg("code has been revoked")
	} else {
		log.Info().Str("code", masked).Msg("code was already gone at revocation")
	}

	audit.Log(context.Background(), audit.Event{
		Type: audit.EventCodeRevoked,
		Code: masked,
		Details: map[string]interface{}{
			"removed": removed,
			"delay":   delay,
		},
	})
}

// Pending reports how many revocation timers are outstanding for code.
func (s *ExpiryScheduler) Pending(code model.AccessCode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked(code)
}

func (s *ExpiryScheduler) pendingLocked(code model.AccessCode) int {
	n := 0
	for _, r := range s.pending {
		if r.code == code {
			n++
		}
	}
	return n
}

// Stop cancels every outstanding timer and waits for callbacks that already
// started. Codes stay in the store; it is process-local and dies with it.
func (s *ExpiryScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	cancelled := 0
	for id, r := range s.pending {
		if r.timer.Stop() {
			s.wg.Done()
			cancelled++
		}
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	log.Info().Int("cancelled", cancelled).Msg("expiry scheduler stopped")
}
