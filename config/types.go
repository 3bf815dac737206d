package config

import "time"

// Deployment modes. In interactive mode the token is scraped from the
// planner page; in provisioned mode it arrives out of band (env/config).
const (
	ModeInteractive = "interactive"
	ModeProvisioned = "provisioned"
)

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port      int             `yaml:"port" validate:"gt=0"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Max           int `yaml:"max" validate:"gte=0"`
	WindowSeconds int `yaml:"windowSeconds" validate:"gte=0"`
}

// UpstreamConfig contains the Red provider endpoints and call timeout.
// The provider has historically changed hosts and response shapes between
// deployments, so every URL stays configurable.
type UpstreamConfig struct {
	ArrivalsURL string `yaml:"arrivalsURL" validate:"omitempty,url"`
	RouteURL    string `yaml:"routeURL" validate:"omitempty,url"`
	TimeoutMS   int    `yaml:"timeoutMS" validate:"gte=0"`
}

// Timeout returns the per-call upstream timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(u.TimeoutMS) * time.Millisecond
}

// TokenConfig controls credential acquisition and caching.
type TokenConfig struct {
	Mode       string `yaml:"mode" validate:"omitempty,oneof=interactive provisioned"`
	Value      string `yaml:"value"`
	TTLMinutes int    `yaml:"ttlMinutes" validate:"gte=0"`
	// Strategies is the acquisition order. Empty means the mode default:
	// provisioned -> [env redirect scrape fallback], interactive -> [scrape fallback].
	Strategies     []string `yaml:"strategies" validate:"dive,oneof=env redirect scrape fallback"`
	ScrapeURL      string   `yaml:"scrapeURL" validate:"omitempty,url"`
	FallbackURLs   []string `yaml:"fallbackURLs" validate:"dive,url"`
	FallbackWaitMS int      `yaml:"fallbackWaitMS" validate:"gte=0"`
	UserAgents     []string `yaml:"userAgents"`
}

// TTL returns the credential cache lifetime.
func (t TokenConfig) TTL() time.Duration {
	if t.TTLMinutes <= 0 {
		if t.Mode == ModeProvisioned {
			return 30 * time.Minute
		}
		return 5 * time.Minute
	}
	return time.Duration(t.TTLMinutes) * time.Minute
}

// FallbackWait returns the pause between degraded fallback attempts.
func (t TokenConfig) FallbackWait() time.Duration {
	if t.FallbackWaitMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(t.FallbackWaitMS) * time.Millisecond
}

// StrategyOrder resolves the configured acquisition order, falling back to
// the per-mode default when none is set.
func (t TokenConfig) StrategyOrder() []string {
	if len(t.Strategies) > 0 {
		return t.Strategies
	}
	if t.Mode == ModeProvisioned {
		return []string{"env", "redirect", "scrape", "fallback"}
	}
	return []string{"scrape", "fallback"}
}

// StatsConfig bounds the statistics sampling endpoint.
type StatsConfig struct {
	DefaultSamples     int `yaml:"defaultSamples" validate:"gte=0"`
	MaxSamples         int `yaml:"maxSamples" validate:"gte=0"`
	DefaultIntervalSec int `yaml:"defaultIntervalSeconds" validate:"gte=0"`
	MaxIntervalSec     int `yaml:"maxIntervalSeconds" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Token    TokenConfig    `yaml:"token"`
	Stats    StatsConfig    `yaml:"stats"`
	LogLevel string         `yaml:"logLevel" validate:"omitempty,oneof=trace debug info warn error"`
}
