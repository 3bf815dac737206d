package token

import (
	"math/rand"
	"net/http"
)

// defaultUserAgents is used when the configuration supplies none. The exact
// values are not behaviorally load-bearing; they just need to look like a
// desktop browser to the upstream site.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// HeaderPolicy builds the request headers used when fetching upstream pages.
// It is swappable so tests and restrictive environments can pin headers.
type HeaderPolicy interface {
	// Apply sets headers for the given attempt. Higher attempt numbers
	// produce progressively more browser-like requests.
	Apply(req *http.Request, attempt int)
}

type browserHeaders struct {
	userAgents []string
	rng        *rand.Rand
}

// NewBrowserHeaders returns the default HeaderPolicy. A nil/empty user agent
// list falls back to the built-in one.
func NewBrowserHeaders(userAgents []string, seed int64) HeaderPolicy {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &browserHeaders{
		userAgents: userAgents,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (b *browserHeaders) Apply(req *http.Request, attempt int) {
	req.Header.Set("User-Agent", b.userAgents[b.rng.Intn(len(b.userAgents))])
	if attempt >= 1 {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "es-CL,es;q=0.9,en;q=0.8")
	}
	if attempt >= 2 {
		req.Header.Set("Referer", "https://www.red.cl/")
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Connection", "keep-alive")
	}
}
