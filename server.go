package redapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/red-transit/red-api/config"
	"github.com/red-transit/red-api/stats"
	"github.com/red-transit/red-api/token"
	"github.com/red-transit/red-api/upstream"
)

// Server wires the HTTP surface over the token provider and upstream gateway.
type Server struct {
	app     *fiber.App
	cfg     config.AppConfig
	tokens  *token.Provider
	gateway *upstream.Gateway
	sampler *stats.Sampler
}

// NewServer builds the fiber application with its middleware stack and
// registers all routes. The token provider is a single shared instance so
// every request sees the same credential cache.
func NewServer(cfg config.AppConfig) *Server {
	tokens := token.NewProvider(cfg.Token, cfg.Upstream.Timeout(), cfg.Upstream.ArrivalsURL)
	gateway := upstream.NewGateway(cfg.Upstream, tokens)

	s := &Server{
		cfg:     cfg,
		tokens:  tokens,
		gateway: gateway,
		sampler: stats.NewSampler(gateway),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowMethods: "GET,POST,OPTIONS"}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Server.RateLimit.Max,
		Expiration: time.Duration(cfg.Server.RateLimit.WindowSeconds) * time.Second,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				JSON(fiber.Map{"error": "rate limit exceeded, slow down"})
		},
	}))

	app.Get("/health", s.handleHealth)

	v1 := app.Group("/api/v1")
	v1.Get("/paraderos/:codigo", s.handleArrivals)
	v1.Get("/paraderos/:codigo/estadisticas", s.handleStatistics)
	v1.Get("/recorridos/:codigo", s.handleRoute)
	v1.Get("/token/estado", s.handleTokenStatus)
	v1.Post("/token/invalidar", s.handleTokenInvalidate)

	s.app = app
	return s
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts serving on the configured port and blocks.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	log.Info().Str("addr", addr).Str("mode", s.cfg.Token.Mode).Msg("server listening")
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Str("requestId", requestID(c)).
			Msg("request")
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}
