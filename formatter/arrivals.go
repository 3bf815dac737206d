package formatter

import (
	"fmt"
	"strings"

	"github.com/red-transit/red-api/upstream"
)

// arrivingNowSentinel is the provider's phrase for a bus at the stop.
const arrivingNowSentinel = "Llegando"

// Bus is one bus entry in the formatted arrivals view.
type Bus struct {
	Distance string `json:"distancia"`
	ETA      string `json:"llegada"`
	Plate    string `json:"patente,omitempty"`
}

// Arrival is the formatted per-service view: destination plus the list of
// predicted buses, at most two.
type Arrival struct {
	Service     string `json:"servicio"`
	Destination string `json:"destino"`
	Buses       []Bus  `json:"buses"`
}

// Arrivals reshapes canonical arrival records into the response view. Bus
// slots with an empty distance or eta label are dropped, never emitted.
func Arrivals(records []upstream.Arrival) []Arrival {
	out := make([]Arrival, 0, len(records))
	for _, rec := range records {
		f := Arrival{
			Service:     rec.ServiceCode,
			Destination: rec.Destination,
			Buses:       []Bus{},
		}
		if b, ok := busEntry(rec.Bus1); ok {
			f.Buses = append(f.Buses, b)
		}
		if rec.Bus2 != nil {
			if b, ok := busEntry(*rec.Bus2); ok {
				f.Buses = append(f.Buses, b)
			}
		}
		out = append(out, f)
	}
	return out
}

func busEntry(p upstream.BusPrediction) (Bus, bool) {
	if p.DistanceLabel == "" || p.ETALabel == "" {
		return Bus{}, false
	}
	return Bus{Distance: p.DistanceLabel, ETA: p.ETALabel, Plate: p.Plate}, true
}

// Summary produces a one-line human-readable description of the arrivals:
// how many distinct services were reported and how many buses are arriving
// right now.
func Summary(records []upstream.Arrival) string {
	services := map[string]struct{}{}
	arriving := 0
	for _, rec := range records {
		services[rec.ServiceCode] = struct{}{}
		for _, p := range busPredictions(rec) {
			if strings.Contains(p.DistanceLabel, arrivingNowSentinel) ||
				strings.Contains(p.ETALabel, arrivingNowSentinel) {
				arriving++
			}
		}
	}
	return fmt.Sprintf("%d servicios en el paradero, %d buses llegando", len(services), arriving)
}

func busPredictions(rec upstream.Arrival) []upstream.BusPrediction {
	preds := []upstream.BusPrediction{rec.Bus1}
	if rec.Bus2 != nil {
		preds = append(preds, *rec.Bus2)
	}
	return preds
}
