// Package upstream fetches and normalizes the two Red provider resources:
// arrival predictions by stop and route geometry by service code.
//
// The provider's JSON is an unversioned, unstable contract: the arrivals
// collection has shipped as a bare array, a nested array, a map keyed by
// arbitrary strings, and a response-code-filtered array. Normalization
// converts every known shape into the canonical Arrival sequence; unknown
// shapes become an empty sequence because absence of service is not failure.
//
// The main type is Gateway.
package upstream
