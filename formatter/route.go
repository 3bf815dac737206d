package formatter

import (
	"math"

	"github.com/red-transit/red-api/upstream"
	"github.com/red-transit/red-api/utils"
)

// Stop is a labeled stop in the formatted route view.
type Stop struct {
	Code      string  `json:"codigo"`
	Name      string  `json:"nombre"`
	Comune    string  `json:"comuna"`
	Latitude  float64 `json:"latitud"`
	Longitude float64 `json:"longitud"`
}

// PathPoint is a labeled coordinate of the route geometry.
type PathPoint struct {
	Latitude  float64 `json:"latitud"`
	Longitude float64 `json:"longitud"`
}

// Geometry carries the route polyline with its point count and estimated
// length (sum of consecutive segment distances).
type Geometry struct {
	Points      int         `json:"puntos"`
	Coordinates []PathPoint `json:"coordenadas"`
	LengthKM    float64     `json:"largoKm"`
}

// Schedule is one formatted timetable row.
type Schedule struct {
	DayType string `json:"tipoDia"`
	Start   string `json:"inicio"`
	End     string `json:"fin"`
}

// Route is the formatted view of one leg.
type Route struct {
	Destination  string     `json:"destino"`
	TotalStops   int        `json:"totalParaderos"`
	Stops        []Stop     `json:"paraderos"`
	Geometry     Geometry   `json:"recorrido"`
	Schedules    []Schedule `json:"horarios"`
	HasTimetable bool       `json:"tieneItinerario"`
}

// FormatRoute expands a route leg into the labeled response view. A nil leg
// yields an empty view so callers can format whichever legs are present
// without checking first.
func FormatRoute(leg *upstream.RouteLeg) Route {
	out := Route{
		Stops:     []Stop{},
		Schedules: []Schedule{},
		Geometry:  Geometry{Coordinates: []PathPoint{}},
	}
	if leg == nil {
		return out
	}
	out.Destination = leg.Destination
	out.HasTimetable = leg.HasTimetable
	for _, s := range leg.Stops {
		out.Stops = append(out.Stops, Stop{
			Code:      s.Code,
			Name:      s.Name,
			Comune:    s.Comune,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		})
	}
	out.TotalStops = len(out.Stops)
	for _, p := range leg.Path {
		if len(p) < 2 {
			continue
		}
		out.Geometry.Coordinates = append(out.Geometry.Coordinates, PathPoint{Latitude: p[0], Longitude: p[1]})
	}
	out.Geometry.Points = len(out.Geometry.Coordinates)
	out.Geometry.LengthKM = roundKM(utils.PathLengthKM(leg.Path))
	for _, h := range leg.Schedules {
		out.Schedules = append(out.Schedules, Schedule{DayType: h.DayType, Start: h.Start, End: h.End})
	}
	return out
}

func roundKM(km float64) float64 {
	return math.Round(km*100) / 100
}
