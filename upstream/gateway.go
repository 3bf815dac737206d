package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/red-transit/red-api/config"
	"github.com/red-transit/red-api/utils"
)

// TokenSource supplies a bearer value valid at the time of the call.
// Satisfied by *token.Provider.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Gateway performs the two provider calls and shields callers from the
// payload shape variance. It does not retry: retry policy belongs to the
// caller, which knows whether the request is interactive.
type Gateway struct {
	client      *Client
	tokens      TokenSource
	arrivalsURL string
	routeURL    string
}

// NewGateway wires a Gateway from configuration and a token source.
func NewGateway(cfg config.UpstreamConfig, tokens TokenSource) *Gateway {
	return &Gateway{
		client:      NewClient(cfg.Timeout()),
		tokens:      tokens,
		arrivalsURL: cfg.ArrivalsURL,
		routeURL:    cfg.RouteURL,
	}
}

// GetArrivals fetches arrival predictions for a stop. The returned slice is
// always non-nil; an empty slice means no service is currently predicted.
func (g *Gateway) GetArrivals(ctx context.Context, stopCode string) ([]Arrival, error) {
	stopCode = utils.NormalizeCode(stopCode)

	tok, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("arrivals for %s: %w", stopCode, err)
	}

	q := url.Values{}
	q.Set("t", tok)
	q.Set("codsimt", stopCode)
	q.Set("codser", "")
	callURL := g.arrivalsURL + "?" + q.Encode()

	body, status, err := g.client.Get(ctx, callURL)
	if err != nil {
		return nil, &UpstreamError{Resource: "arrivals", Code: stopCode, Status: status, Timeout: isTimeout(err), Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &UpstreamError{Resource: "arrivals", Code: stopCode, Status: status}
	}

	arrivals, ok := normalizeArrivals(body)
	if !ok {
		return nil, &UpstreamError{Resource: "arrivals", Code: stopCode, Status: status, Err: errors.New("unparseable response body")}
	}
	log.Debug().Str("stop", stopCode).Int("services", len(arrivals)).Msg("arrivals fetched")
	return arrivals, nil
}

// GetRoute fetches the route legs for a service code. Zero legs is a valid
// empty result; the handler decides whether that surfaces as 404.
func (g *Gateway) GetRoute(ctx context.Context, serviceCode string) (Route, error) {
	serviceCode = utils.NormalizeCode(serviceCode)

	q := url.Values{}
	q.Set("codsint", serviceCode)
	callURL := g.routeURL + "?" + q.Encode()

	body, status, err := g.client.Get(ctx, callURL)
	if err != nil {
		return Route{}, &UpstreamError{Resource: "route", Code: serviceCode, Status: status, Timeout: isTimeout(err), Err: err}
	}
	if status < 200 || status > 299 {
		return Route{}, &UpstreamError{Resource: "route", Code: serviceCode, Status: status}
	}

	route, ok := normalizeRoute(body)
	if !ok {
		return Route{}, &UpstreamError{Resource: "route", Code: serviceCode, Status: status, Err: errors.New("unparseable response body")}
	}
	log.Debug().Str("service", serviceCode).Bool("ida", route.Ida != nil).Bool("regreso", route.Regreso != nil).Msg("route fetched")
	return route, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
