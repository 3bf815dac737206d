package redapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/red-transit/red-api/formatter"
	"github.com/red-transit/red-api/stats"
	"github.com/red-transit/red-api/token"
	"github.com/red-transit/red-api/upstream"
	"github.com/red-transit/red-api/utils"
)

func (s *Server) handleArrivals(c *fiber.Ctx) error {
	code := c.Params("codigo")
	if err := ValidateStopCode(code); err != nil {
		return writeError(c, err)
	}

	arrivals, err := s.gateway.GetArrivals(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}

	servicios := formatter.Arrivals(arrivals)
	return c.JSON(fiber.Map{
		"paradero":  utils.NormalizeCode(code),
		"servicios": servicios,
		"resumen":   formatter.Summary(arrivals),
		"total":     len(servicios),
	})
}

func (s *Server) handleStatistics(c *fiber.Ctx) error {
	code := c.Params("codigo")
	if err := ValidateStopCode(code); err != nil {
		return writeError(c, err)
	}

	n := clampInt(c.Query("muestras"), s.cfg.Stats.DefaultSamples, s.cfg.Stats.MaxSamples)
	intervalSec := clampInt(c.Query("intervaloSegundos"), s.cfg.Stats.DefaultIntervalSec, s.cfg.Stats.MaxIntervalSec)

	samples, err := s.sampler.Collect(c.UserContext(), code, n, time.Duration(intervalSec)*time.Second)
	if err != nil {
		// Only context cancellation aborts a run; per-sample failures were
		// already skipped inside Collect.
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"paradero":            utils.NormalizeCode(code),
		"muestrasSolicitadas": n,
		"intervaloSegundos":   intervalSec,
		"estadisticas":        stats.Compute(samples),
	})
}

func (s *Server) handleRoute(c *fiber.Ctx) error {
	code := c.Params("codigo")
	if err := ValidateServiceCode(code); err != nil {
		return writeError(c, err)
	}

	route, err := s.gateway.GetRoute(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}
	if route.Empty() {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "no route data for service " + utils.NormalizeCode(code)})
	}

	payload := fiber.Map{"servicio": utils.NormalizeCode(code)}
	if route.Ida != nil {
		payload["ida"] = formatter.FormatRoute(route.Ida)
	}
	if route.Regreso != nil {
		payload["regreso"] = formatter.FormatRoute(route.Regreso)
	}
	return c.JSON(payload)
}

func (s *Server) handleTokenStatus(c *fiber.Ctx) error {
	return c.JSON(s.tokens.CacheStatus())
}

func (s *Server) handleTokenInvalidate(c *fiber.Ctx) error {
	s.tokens.Invalidate()
	return c.JSON(fiber.Map{"status": "invalidated"})
}

// writeError maps the error taxonomy onto HTTP statuses:
// validation -> 400, acquisition exhausted -> 503, upstream timeout -> 504,
// upstream with known status -> 502, anything else -> 500.
func writeError(c *fiber.Ctx, err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Msg})
	}

	var aErr *token.AcquisitionError
	if errors.As(err, &aErr) {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "could not obtain upstream credential"})
	}

	var uErr *upstream.UpstreamError
	if errors.As(err, &uErr) {
		status := fiber.StatusBadGateway
		if uErr.Timeout {
			status = fiber.StatusGatewayTimeout
		} else if uErr.Status == 0 && uErr.Err != nil {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{"error": uErr.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
