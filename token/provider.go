package token

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/red-transit/red-api/config"
)

// Provider guarantees that Token returns a value valid at the instant of the
// call, refreshing transparently when the cached credential expired. Each
// refresh is an expensive scrape of the upstream site, so concurrent callers
// observing an expired credential share a single in-flight refresh.
type Provider struct {
	mu         sync.RWMutex
	cred       credential
	ttl        time.Duration
	strategies []Strategy

	group singleflight.Group
	now   func() time.Time
}

// NewProvider builds a Provider from configuration. The http.Client used for
// scraping carries the upstream per-call timeout and leaves redirects to the
// individual strategies.
func NewProvider(cfg config.TokenConfig, timeout time.Duration, arrivalsURL string) *Provider {
	headers := NewBrowserHeaders(cfg.UserAgents, time.Now().UnixNano())

	scrapeClient := &http.Client{Timeout: timeout}
	// Redirect extraction needs the Location header, not the page it points at.
	redirectClient := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	available := map[string]Strategy{
		"env":      &envStrategy{value: cfg.Value},
		"redirect": &redirectStrategy{client: redirectClient, arrivalsURL: arrivalsURL, headers: headers},
		"scrape":   &scrapeStrategy{client: scrapeClient, pageURL: cfg.ScrapeURL, headers: headers},
		"fallback": &fallbackStrategy{client: scrapeClient, urls: cfg.FallbackURLs, headers: headers, wait: cfg.FallbackWait()},
	}

	var strategies []Strategy
	for _, name := range cfg.StrategyOrder() {
		if s, ok := available[name]; ok {
			strategies = append(strategies, s)
		}
	}

	return &Provider{
		ttl:        cfg.TTL(),
		strategies: strategies,
		now:        time.Now,
	}
}

// NewProviderWithStrategies wires an explicit strategy list and clock.
// Used by tests; production code goes through NewProvider.
func NewProviderWithStrategies(ttl time.Duration, now func() time.Time, strategies ...Strategy) *Provider {
	if now == nil {
		now = time.Now
	}
	return &Provider{ttl: ttl, strategies: strategies, now: now}
}

// Token returns a bearer value valid at the time of the call, refreshing the
// cached credential first when needed. On refresh failure it returns an
// *AcquisitionError wrapping the last strategy's cause.
func (p *Provider) Token(ctx context.Context) (string, error) {
	p.mu.RLock()
	cred := p.cred
	p.mu.RUnlock()
	if cred.validAt(p.now()) {
		return cred.value, nil
	}

	// Collapse concurrent refreshes into one upstream acquisition. The key is
	// constant: there is only ever one credential.
	v, err, _ := p.group.Do("refresh", func() (interface{}, error) {
		// A waiter that queued behind a completed refresh can use its result.
		p.mu.RLock()
		cur := p.cred
		p.mu.RUnlock()
		if cur.validAt(p.now()) {
			return cur.value, nil
		}
		return p.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh walks the strategy list and installs the first token acquired.
// Never installs a partial credential: on exhaustion the cache is untouched.
func (p *Provider) refresh(ctx context.Context) (string, error) {
	var lastErr error
	for _, s := range p.strategies {
		start := p.now()
		tok, err := s.Acquire(ctx)
		if err != nil {
			lastErr = err
			log.Debug().Str("strategy", s.Name()).Dur("elapsed", p.now().Sub(start)).Err(err).Msg("acquisition strategy failed")
			continue
		}
		now := p.now()
		p.mu.Lock()
		p.cred = credential{value: tok, acquiredAt: now, expiresAt: now.Add(p.ttl)}
		p.mu.Unlock()
		log.Info().Str("strategy", s.Name()).Time("expiresAt", now.Add(p.ttl)).Msg("token refreshed")
		return tok, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no acquisition strategies configured")
	}
	return "", &AcquisitionError{Attempts: len(p.strategies), Err: lastErr}
}

// Invalidate forces the next Token call to refresh. Idempotent.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.cred = credential{}
	p.mu.Unlock()
	log.Info().Msg("token cache invalidated")
}

// CacheStatus reports the credential cache state without side effects.
func (p *Provider) CacheStatus() Status {
	p.mu.RLock()
	cred := p.cred
	p.mu.RUnlock()

	now := p.now()
	st := Status{Present: cred.value != ""}
	if st.Present {
		if remaining := cred.expiresAt.Sub(now); remaining > 0 {
			st.SecondsRemaining = int(remaining.Seconds())
		}
	}
	st.Valid = cred.validAt(now)
	return st
}
