package repository

import (
	"sync"

	"github.com/codegate/gate-server-go/internal/model"
)

// AccessCodeRepository is the registry of currently valid access codes.
type AccessCodeRepository interface {
	Contains(code model.AccessCode) bool
	Insert(code model.AccessCode)
	Remove(code model.AccessCode) bool
	Count() int
}

type memoryAccessCodeRepository struct {
	mu    sync.RWMutex
	codes map[model.AccessCode]struct{}
}

// NewMemoryAccessCodeRepository returns an empty process-local store.
// Its contents do not survive a restart.
func NewMemoryAccessCodeRepository() AccessCodeRepository {
	return &memoryAccessCodeRepository{
		codes: make(map[model.AccessCode]struct{}),
	}
}

func (r *memoryAccessCodeRepository) Contains(code model.AccessCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codes[code]
	return ok
}

func (r *memoryAccessCodeRepository) Insert(code model.AccessCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code] = struct{}{}
}

// Remove deletes code and reports whether it was present.
func (r *memoryAccessCodeRepository) Remove(code model.AccessCode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[code]; !ok {
		return false
	}
	delete(r.codes, code)
	return true
}

func (r *memoryAccessCodeRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}
