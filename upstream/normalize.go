package upstream

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// responseCodeOK is the provider's success sentinel on per-service records.
const responseCodeOK = "00"

// flexString accepts a JSON string or number; the provider has shipped
// distances both ways.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// rawService mirrors one provider arrival record. Field names follow the
// provider's wire contract and must not be renamed.
type rawService struct {
	Servicio           string     `json:"servicio"`
	Destino            string     `json:"destino"`
	CodigoRespuesta    string     `json:"codigorespuesta"`
	DistanciaBus1      flexString `json:"distanciabus1"`
	HoraPrediccionBus1 string     `json:"horaprediccionbus1"`
	PPUBus1            string     `json:"ppubus1"`
	DistanciaBus2      flexString `json:"distanciabus2"`
	HoraPrediccionBus2 string     `json:"horaprediccionbus2"`
	PPUBus2            string     `json:"ppubus2"`
}

func (r rawService) toArrival() Arrival {
	a := Arrival{
		ServiceCode: strings.ToUpper(strings.TrimSpace(r.Servicio)),
		Destination: strings.TrimSpace(r.Destino),
		Bus1: BusPrediction{
			DistanceLabel: string(r.DistanciaBus1),
			ETALabel:      r.HoraPrediccionBus1,
			Plate:         r.PPUBus1,
		},
	}
	// A second bus exists only when the provider filled both fields.
	if r.DistanciaBus2 != "" && r.HoraPrediccionBus2 != "" {
		a.Bus2 = &BusPrediction{
			DistanceLabel: string(r.DistanciaBus2),
			ETALabel:      r.HoraPrediccionBus2,
			Plate:         r.PPUBus2,
		}
	}
	return a
}

// normalizeArrivals converts any known provider payload shape into the
// canonical arrival sequence. The result is always non-nil; an unknown shape
// is an empty sequence, never an error.
//
// Known shapes, probed in order:
//  1. top-level array of records (possibly response-code filtered)
//  2. object with "servicios" as an array
//  3. object with "servicios.item" as an array
//  4. object with "servicios" as a map of records (values taken, order by key)
func normalizeArrivals(body []byte) ([]Arrival, bool) {
	var records []rawService
	if err := json.Unmarshal(body, &records); err == nil {
		return filterRecords(records), true
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}
	servicios, ok := envelope["servicios"]
	if !ok {
		return []Arrival{}, true
	}

	if err := json.Unmarshal(servicios, &records); err == nil {
		return filterRecords(records), true
	}

	var nested struct {
		Item []rawService `json:"item"`
	}
	if err := json.Unmarshal(servicios, &nested); err == nil && nested.Item != nil {
		return filterRecords(nested.Item), true
	}

	var byKey map[string]rawService
	if err := json.Unmarshal(servicios, &byKey); err == nil {
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		// Map iteration order is random; sort keys so output is stable.
		sort.Strings(keys)
		records = make([]rawService, 0, len(byKey))
		for _, k := range keys {
			records = append(records, byKey[k])
		}
		return filterRecords(records), true
	}

	return []Arrival{}, true
}

// filterRecords drops records the provider flagged as failed and converts the
// rest. Records without a response code are kept.
func filterRecords(records []rawService) []Arrival {
	out := make([]Arrival, 0, len(records))
	for _, r := range records {
		if r.CodigoRespuesta != "" && r.CodigoRespuesta != responseCodeOK {
			continue
		}
		if r.Servicio == "" {
			continue
		}
		out = append(out, r.toArrival())
	}
	return out
}

// rawLeg mirrors one direction of the provider's route payload.
type rawLeg struct {
	Destino    string          `json:"destino"`
	Paraderos  []rawParadero   `json:"paraderos"`
	Path       [][]float64     `json:"path"`
	Horarios   []ScheduleEntry `json:"horarios"`
	Itinerario bool            `json:"itinerario"`
}

type rawParadero struct {
	Cod    string     `json:"cod"`
	Name   string     `json:"name"`
	Comuna string     `json:"comuna"`
	Pos    []flexJSON `json:"pos"`
}

// flexJSON accepts coordinates shipped as numbers or numeric strings.
type flexJSON float64

func (f *flexJSON) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexJSON(v)
	return nil
}

func (l *rawLeg) toRouteLeg() *RouteLeg {
	leg := &RouteLeg{
		Destination:  strings.TrimSpace(l.Destino),
		Stops:        make([]StopRef, 0, len(l.Paraderos)),
		Path:         l.Path,
		Schedules:    l.Horarios,
		HasTimetable: l.Itinerario,
	}
	if leg.Path == nil {
		leg.Path = [][]float64{}
	}
	if leg.Schedules == nil {
		leg.Schedules = []ScheduleEntry{}
	}
	for _, p := range l.Paraderos {
		ref := StopRef{
			Code:   strings.ToUpper(strings.TrimSpace(p.Cod)),
			Name:   p.Name,
			Comune: p.Comuna,
		}
		if len(p.Pos) >= 2 {
			ref.Latitude = float64(p.Pos[0])
			ref.Longitude = float64(p.Pos[1])
		}
		leg.Stops = append(leg.Stops, ref)
	}
	return leg
}

// normalizeRoute decodes the route payload, defaulting missing leg fields so
// downstream code never null-checks them. false means unparseable JSON.
func normalizeRoute(body []byte) (Route, bool) {
	var envelope struct {
		Ida     *rawLeg `json:"ida"`
		Regreso *rawLeg `json:"regreso"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Route{}, false
	}
	var route Route
	if envelope.Ida != nil {
		route.Ida = envelope.Ida.toRouteLeg()
	}
	if envelope.Regreso != nil {
		route.Regreso = envelope.Regreso.toRouteLeg()
	}
	return route, true
}
