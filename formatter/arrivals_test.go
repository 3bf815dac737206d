package formatter

import (
	"strings"
	"testing"

	"github.com/red-transit/red-api/upstream"
)

func TestArrivals(t *testing.T) {
	records := []upstream.Arrival{
		{
			ServiceCode: "405",
			Destination: "Maipu",
			Bus1:        upstream.BusPrediction{DistanceLabel: "1250", ETALabel: "Entre 05 Y 09 min.", Plate: "ABCD12"},
			Bus2:        &upstream.BusPrediction{DistanceLabel: "2800", ETALabel: "Entre 12 Y 18 min.", Plate: "EFGH34"},
		},
		{
			ServiceCode: "108",
			Destination: "La Florida",
			Bus1:        upstream.BusPrediction{DistanceLabel: "90", ETALabel: "Llegando", Plate: "IJKL56"},
		},
	}

	got := Arrivals(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 formatted entries, got %d", len(got))
	}
	if len(got[0].Buses) != 2 {
		t.Errorf("service 405 should have 2 buses, got %d", len(got[0].Buses))
	}
	if len(got[1].Buses) != 1 {
		t.Errorf("service 108 should have 1 bus, got %d", len(got[1].Buses))
	}
	if got[0].Buses[0].Plate != "ABCD12" {
		t.Errorf("unexpected plate: %+v", got[0].Buses[0])
	}
}

func TestArrivals_DropsEmptyBusSlots(t *testing.T) {
	records := []upstream.Arrival{
		{
			ServiceCode: "210",
			Bus1:        upstream.BusPrediction{DistanceLabel: "", ETALabel: "Entre 05 Y 09 min."},
			Bus2:        &upstream.BusPrediction{DistanceLabel: "500", ETALabel: ""},
		},
	}

	got := Arrivals(records)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if len(got[0].Buses) != 0 {
		t.Errorf("bus slots with empty labels must be dropped, got %+v", got[0].Buses)
	}
	for _, b := range got[0].Buses {
		if b.Distance == "" || b.ETA == "" {
			t.Errorf("formatted bus with empty label emitted: %+v", b)
		}
	}
}

func TestSummary(t *testing.T) {
	records := []upstream.Arrival{
		{ServiceCode: "405", Bus1: upstream.BusPrediction{DistanceLabel: "90", ETALabel: "Llegando"}},
		{ServiceCode: "405", Bus1: upstream.BusPrediction{DistanceLabel: "1900", ETALabel: "Entre 10 Y 15 min."}},
		{ServiceCode: "108", Bus1: upstream.BusPrediction{DistanceLabel: "40", ETALabel: "Llegando"}},
	}

	got := Summary(records)
	if !strings.Contains(got, "2 servicios") {
		t.Errorf("summary should count 2 distinct services: %q", got)
	}
	if !strings.Contains(got, "2 buses llegando") {
		t.Errorf("summary should count 2 arriving buses: %q", got)
	}
}

func TestSummary_Empty(t *testing.T) {
	got := Summary(nil)
	if !strings.Contains(got, "0 servicios") {
		t.Errorf("empty summary should report zero services: %q", got)
	}
}
