package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/red-transit/red-api/upstream"
)

// ArrivalsFetcher is the slice of the gateway the sampler needs.
type ArrivalsFetcher interface {
	GetArrivals(ctx context.Context, stopCode string) ([]upstream.Arrival, error)
}

// Sampler drives a sequential sampling run against one stop.
type Sampler struct {
	fetcher ArrivalsFetcher
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewSampler creates a Sampler over an arrivals fetcher.
func NewSampler(fetcher ArrivalsFetcher) *Sampler {
	return &Sampler{
		fetcher: fetcher,
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

// Collect polls the stop n times, waiting interval between polls. Failed
// polls are skipped; the run only aborts when the context is done. The
// returned slice may be empty, which Compute turns into empty statistics.
func (s *Sampler) Collect(ctx context.Context, stopCode string, n int, interval time.Duration) ([]Sample, error) {
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := s.sleep(ctx, interval); err != nil {
				return samples, err
			}
		}
		arrivals, err := s.fetcher.GetArrivals(ctx, stopCode)
		if err != nil {
			if ctx.Err() != nil {
				return samples, ctx.Err()
			}
			log.Warn().Str("stop", stopCode).Int("sample", i+1).Err(err).Msg("sample skipped")
			continue
		}
		samples = append(samples, Sample{Timestamp: s.now(), Services: uniqueServices(arrivals)})
	}
	return samples, nil
}

// uniqueServices extracts distinct service codes in first-observed order.
func uniqueServices(arrivals []upstream.Arrival) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(arrivals))
	for _, a := range arrivals {
		if _, dup := seen[a.ServiceCode]; dup {
			continue
		}
		seen[a.ServiceCode] = struct{}{}
		out = append(out, a.ServiceCode)
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
