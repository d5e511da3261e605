package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/codegate/gate-server-go/internal/errors"
	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/repository"
)

const (
	reputationService      = "ipinfo"
	maxReputationBodyBytes = 64 << 10
)

// ReputationChecker looks up how an IP address is classified
type ReputationChecker interface {
	Lookup(ctx context.Context, ip string) (*model.Reputation, error)
}

// IPInfoChecker queries an ipinfo-compatible HTTP API
type IPInfoChecker struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewIPInfoChecker(baseURL, token string, timeout time.Duration) *IPInfoChecker {
	return &IPInfoChecker{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (c *IPInfoChecker) Lookup(ctx context.Context, ip string) (*model.Reputation, error) {
	endpoint := fmt.Sprintf("%s/%s/json?token=%s", c.baseURL, url.PathEscape(ip), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.External(reputationService, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, apperrors.External(reputationService, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.External(reputationService, fmt.Errorf("lookup failed with status %d", resp.StatusCode))
	}

	var rep model.Reputation
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReputationBodyBytes)).Decode(&rep); err != nil {
		return nil, apperrors.External(reputationService, fmt.Errorf("decode response: %w", err))
	}
	if rep.IP == "" {
		rep.IP = ip
	}

	log.Debug().
		Str("ip", ip).
		Bool("blocked", rep.Blocked()).
		Dur("elapsed", elapsed).
		Msg("reputation lookup completed")

	return &rep, nil
}

// CachedReputationChecker remembers lookups for ttl. Cache failures are
// logged and fall through to the wrapped checker.
type CachedReputationChecker struct {
	next  ReputationChecker
	cache repository.ReputationCache
	ttl   time.Duration
}

func NewCachedReputationChecker(next ReputationChecker, cache repository.ReputationCache, ttl time.Duration) *CachedReputationChecker {
	return &CachedReputationChecker{next: next, cache: cache, ttl: ttl}
}

func (c *CachedReputationChecker) Lookup(ctx context.Context, ip string) (*model.Reputation, error) {
	cached, err := c.cache.Get(ctx, ip)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("reputation cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	rep, err := c.next.Lookup(ctx, ip)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, ip, rep, c.ttl); err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("reputation cache write failed")
	}
	return rep, nil
}

// ReputationVerdict is the outcome of screening a client
type ReputationVerdict struct {
	Allowed    bool
	Reputation *model.Reputation
	Err        error
}

// ReputationGuard screens clients before code issuance. It fails open: a
// lookup error or timeout permits the client.
type ReputationGuard struct {
	checker ReputationChecker
	timeout time.Duration
}

// NewReputationGuard returns a guard; a nil checker permits everyone.
func NewReputationGuard(checker ReputationChecker, timeout time.Duration) *ReputationGuard {
	return &ReputationGuard{checker: checker, timeout: timeout}
}

func (g *ReputationGuard) Screen(ctx context.Context, ip string) ReputationVerdict {
	if g.checker == nil || ip == "" {
		return ReputationVerdict{Allowed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		rep *model.Reputation
		err error
	}
	done := make(chan result, 1)
	go func() {
		rep, err := g.checker.Lookup(ctx, ip)
		done <- result{rep, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return ReputationVerdict{Allowed: true, Err: res.err}
		}
		return ReputationVerdict{Allowed: !res.rep.Blocked(), Reputation: res.rep}
	case <-ctx.Done():
		return ReputationVerdict{Allowed: true, Err: apperrors.External(reputationService, ctx.Err())}
	}
}
