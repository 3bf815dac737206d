package stats

import (
	"math"
	"sort"
	"time"
)

// Sample is one poll of a stop: the distinct service codes observed, in
// first-observed order.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Services  []string  `json:"servicios"`
}

// ServiceFrequency is one row of the frequency ranking.
type ServiceFrequency struct {
	Service   string `json:"servicio"`
	Frequency int    `json:"frecuencia"`
}

// Result summarizes a sampling run.
type Result struct {
	MostCommonServices   []ServiceFrequency `json:"serviciosMasFrecuentes"`
	AvgServicesPerSample float64            `json:"promedioServiciosPorMuestra"`
	TotalObserved        int                `json:"totalObservado"`
	Samples              int                `json:"muestras"`
}

// Compute tallies service-code frequency across samples. A service counts at
// most once per sample. The ranking is frequency descending; ties keep the
// order in which services were first observed across the run.
func Compute(samples []Sample) Result {
	freq := map[string]int{}
	firstSeen := map[string]int{}
	total := 0
	order := 0

	for _, s := range samples {
		seen := map[string]struct{}{}
		for _, code := range s.Services {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			if _, known := firstSeen[code]; !known {
				firstSeen[code] = order
				order++
			}
			freq[code]++
			total++
		}
	}

	ranking := make([]ServiceFrequency, 0, len(freq))
	for code, n := range freq {
		ranking = append(ranking, ServiceFrequency{Service: code, Frequency: n})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Frequency != ranking[j].Frequency {
			return ranking[i].Frequency > ranking[j].Frequency
		}
		return firstSeen[ranking[i].Service] < firstSeen[ranking[j].Service]
	})

	res := Result{
		MostCommonServices: ranking,
		TotalObserved:      total,
		Samples:            len(samples),
	}
	if len(samples) > 0 {
		avg := float64(total) / float64(len(samples))
		res.AvgServicesPerSample = math.Round(avg*100) / 100
	}
	return res
}
