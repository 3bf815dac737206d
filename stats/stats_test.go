package stats

import (
	"testing"
	"time"
)

func TestCompute_SingleSample(t *testing.T) {
	// Duplicate service codes inside one sample count once.
	samples := []Sample{
		{Timestamp: time.Now(), Services: []string{"405", "405", "108"}},
	}

	got := Compute(samples)
	if len(got.MostCommonServices) != 2 {
		t.Fatalf("expected 2 ranked services, got %+v", got.MostCommonServices)
	}
	if got.MostCommonServices[0].Service != "405" || got.MostCommonServices[0].Frequency != 1 {
		t.Errorf("expected (405,1) first, got %+v", got.MostCommonServices[0])
	}
	if got.MostCommonServices[1].Service != "108" || got.MostCommonServices[1].Frequency != 1 {
		t.Errorf("expected (108,1) second, got %+v", got.MostCommonServices[1])
	}
	if got.AvgServicesPerSample != 2 {
		t.Errorf("expected avg 2, got %f", got.AvgServicesPerSample)
	}
	if got.TotalObserved != 2 {
		t.Errorf("expected total 2, got %d", got.TotalObserved)
	}
}

func TestCompute_FrequencyRankingAndTies(t *testing.T) {
	samples := []Sample{
		{Services: []string{"210", "405"}},
		{Services: []string{"405", "108"}},
		{Services: []string{"405", "108"}},
	}

	got := Compute(samples)
	want := []struct {
		code string
		freq int
	}{
		{"405", 3},
		{"108", 2},
		{"210", 1},
	}

	if len(got.MostCommonServices) != 3 {
		t.Fatalf("expected 3 ranked services, got %+v", got.MostCommonServices)
	}
	for i, w := range want {
		if got.MostCommonServices[i].Service != w.code || got.MostCommonServices[i].Frequency != w.freq {
			t.Errorf("rank %d: expected (%s,%d), got %+v", i, w.code, w.freq, got.MostCommonServices[i])
		}
	}
}

func TestCompute_TieOrderIsFirstObserved(t *testing.T) {
	samples := []Sample{
		{Services: []string{"C01", "A02", "B03"}},
	}

	got := Compute(samples)
	order := []string{"C01", "A02", "B03"}
	for i, code := range order {
		if got.MostCommonServices[i].Service != code {
			t.Errorf("rank %d: expected %s (first-observed tie order), got %s", i, code, got.MostCommonServices[i].Service)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)
	if got.AvgServicesPerSample != 0 || got.TotalObserved != 0 || got.Samples != 0 {
		t.Errorf("empty input should yield zeroed result, got %+v", got)
	}
	if len(got.MostCommonServices) != 0 {
		t.Errorf("expected empty ranking, got %+v", got.MostCommonServices)
	}
}

func TestCompute_AverageRounding(t *testing.T) {
	samples := []Sample{
		{Services: []string{"405"}},
		{Services: []string{"108"}},
		{Services: []string{}},
	}

	got := Compute(samples)
	if got.AvgServicesPerSample != 0.67 {
		t.Errorf("expected avg 2/3 rounded to 0.67, got %f", got.AvgServicesPerSample)
	}
	if got.TotalObserved != 2 {
		t.Errorf("expected 2 observations, got %d", got.TotalObserved)
	}
}
