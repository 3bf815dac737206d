package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/red-transit/red-api/upstream"
)

// scriptedFetcher returns one scripted result per call, in order.
type scriptedFetcher struct {
	results []func() ([]upstream.Arrival, error)
	calls   int
}

func (f *scriptedFetcher) GetArrivals(ctx context.Context, stopCode string) ([]upstream.Arrival, error) {
	if f.calls >= len(f.results) {
		return []upstream.Arrival{}, nil
	}
	r := f.results[f.calls]
	f.calls++
	return r()
}

func arrivalsFor(codes ...string) func() ([]upstream.Arrival, error) {
	return func() ([]upstream.Arrival, error) {
		out := make([]upstream.Arrival, 0, len(codes))
		for _, c := range codes {
			out = append(out, upstream.Arrival{ServiceCode: c})
		}
		return out, nil
	}
}

func failing() func() ([]upstream.Arrival, error) {
	return func() ([]upstream.Arrival, error) { return nil, errors.New("upstream hiccup") }
}

func newTestSampler(f ArrivalsFetcher) *Sampler {
	s := NewSampler(f)
	s.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return s
}

func TestSampler_Collect(t *testing.T) {
	fetcher := &scriptedFetcher{results: []func() ([]upstream.Arrival, error){
		arrivalsFor("405", "108"),
		arrivalsFor("405"),
		arrivalsFor("108", "108", "210"),
	}}

	samples, err := newTestSampler(fetcher).Collect(context.Background(), "PC205", 3, time.Second)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if got := samples[2].Services; len(got) != 2 || got[0] != "108" || got[1] != "210" {
		t.Errorf("expected deduplicated services [108 210], got %v", got)
	}
}

func TestSampler_SkipsFailedSamples(t *testing.T) {
	fetcher := &scriptedFetcher{results: []func() ([]upstream.Arrival, error){
		arrivalsFor("405"),
		failing(),
		arrivalsFor("108"),
	}}

	samples, err := newTestSampler(fetcher).Collect(context.Background(), "PC205", 3, time.Second)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("failed sample should be skipped, got %d samples", len(samples))
	}
}

func TestSampler_AllSamplesFail(t *testing.T) {
	fetcher := &scriptedFetcher{results: []func() ([]upstream.Arrival, error){
		failing(), failing(),
	}}

	samples, err := newTestSampler(fetcher).Collect(context.Background(), "PC205", 2, time.Second)
	if err != nil {
		t.Fatalf("Collect must not fail when samples do: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("expected zero samples, got %d", len(samples))
	}

	res := Compute(samples)
	if res.TotalObserved != 0 || len(res.MostCommonServices) != 0 {
		t.Errorf("expected empty statistics, got %+v", res)
	}
}

func TestSampler_ContextCancelAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &scriptedFetcher{results: []func() ([]upstream.Arrival, error){
		arrivalsFor("405"),
	}}

	s := NewSampler(fetcher)
	s.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	samples, err := s.Collect(ctx, "PC205", 3, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("expected the sample taken before cancel to be kept, got %d", len(samples))
	}
}
