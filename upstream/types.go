package upstream

import "fmt"

// BusPrediction is one predicted bus for a service at a stop. Labels are the
// provider's human-readable strings, forwarded unchanged.
type BusPrediction struct {
	DistanceLabel string `json:"distancia"`
	ETALabel      string `json:"llegada"`
	Plate         string `json:"patente"`
}

// Arrival is one upstream-reported service arriving at one stop. Bus2 is nil
// unless the provider supplied both a distance and an eta for a second bus.
type Arrival struct {
	ServiceCode string         `json:"servicio"`
	Destination string         `json:"destino"`
	Bus1        BusPrediction  `json:"bus1"`
	Bus2        *BusPrediction `json:"bus2,omitempty"`
}

// StopRef identifies one stop along a route leg.
type StopRef struct {
	Code      string  `json:"cod"`
	Name      string  `json:"nombre"`
	Comune    string  `json:"comuna"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// ScheduleEntry is one timetable row of a route leg.
type ScheduleEntry struct {
	DayType string `json:"tipoDia"`
	Start   string `json:"inicio"`
	End     string `json:"fin"`
}

// RouteLeg is one direction of a route. All slices are non-nil after
// normalization so downstream code never null-checks them.
type RouteLeg struct {
	Destination  string          `json:"destino"`
	Stops        []StopRef       `json:"paraderos"`
	Path         [][]float64     `json:"path"`
	Schedules    []ScheduleEntry `json:"horarios"`
	HasTimetable bool            `json:"itinerario"`
}

// Route holds up to two legs of a service. A nil leg means the provider did
// not return that direction; both nil is data absence, not an error.
type Route struct {
	Ida     *RouteLeg `json:"ida,omitempty"`
	Regreso *RouteLeg `json:"regreso,omitempty"`
}

// Empty reports whether the provider returned no leg at all.
func (r Route) Empty() bool { return r.Ida == nil && r.Regreso == nil }

// UpstreamError is a transport failure, timeout, or unparseable response from
// the provider's data endpoints. Status is zero when no HTTP status was seen.
type UpstreamError struct {
	Resource string // "arrivals" or "route"
	Code     string // stop or service code the call was about
	Status   int
	Timeout  bool
	Err      error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("upstream %s timed out for %s: %v", e.Resource, e.Code, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("upstream %s returned HTTP %d for %s", e.Resource, e.Status, e.Code)
	default:
		return fmt.Sprintf("upstream %s failed for %s: %v", e.Resource, e.Code, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }
