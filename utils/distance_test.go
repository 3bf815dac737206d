package utils

import (
	"math"
	"testing"
)

func TestHaversineKM(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKM                 float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: -33.45, lon1: -70.66, lat2: -33.45, lon2: -70.66,
			wantKM: 0, tolerance: 0.0001,
		},
		{
			name: "plaza de armas to estacion central",
			lat1: -33.4372, lon1: -70.6506, lat2: -33.4513, lon2: -70.6790,
			wantKM: 3.05, tolerance: 0.2,
		},
		{
			name: "santiago to valparaiso",
			lat1: -33.4489, lon1: -70.6693, lat2: -33.0472, lon2: -71.6127,
			wantKM: 98.6, tolerance: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKM) > tt.tolerance {
				t.Errorf("HaversineKM() = %.4f, want %.4f ±%.4f", got, tt.wantKM, tt.tolerance)
			}
		})
	}
}

func TestPathLengthKM(t *testing.T) {
	a := []float64{-33.4372, -70.6506}
	b := []float64{-33.4513, -70.6790}
	c := []float64{-33.4569, -70.7000}

	segAB := HaversineKM(a[0], a[1], b[0], b[1])
	segBC := HaversineKM(b[0], b[1], c[0], c[1])

	tests := []struct {
		name string
		path [][]float64
		want float64
	}{
		{"empty", nil, 0},
		{"single point", [][]float64{a}, 0},
		{"two points", [][]float64{a, b}, segAB},
		{"three points", [][]float64{a, b, c}, segAB + segBC},
		{"malformed entry skipped", [][]float64{a, {-33.45}, b}, segAB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PathLengthKM(tt.path)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("PathLengthKM() = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pc205", "PC205"},
		{"  PC205 ", "PC205"},
		{"\t405\n", "405"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
