package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	redapi "github.com/red-transit/red-api"
	"github.com/red-transit/red-api/config"
	"github.com/red-transit/red-api/formatter"
	"github.com/red-transit/red-api/stats"
	"github.com/red-transit/red-api/token"
	"github.com/red-transit/red-api/upstream"
)

func main() {
	if os.Getenv("RED_API_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	app := &cli.App{
		Name:        "red-api",
		Usage:       "REST wrapper over Santiago's Red transit arrival and route data",
		Description: "Serves arrival predictions and route geometry from the Red provider, handling token acquisition and response normalization.",
		Commands: []*cli.Command{
			serveCommand(),
			consultarCommand(),
			monitorearCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func loadConfig() error {
	if err := config.LoadAppConfig(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	level, err := zerolog.ParseLevel(config.Config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
	return nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Action: func(c *cli.Context) error {
			if err := loadConfig(); err != nil {
				return err
			}
			srv := redapi.NewServer(config.Config)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen() }()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigs:
				log.Info().Msg("shutdown signal received")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
}

// newGateway builds a standalone gateway for one-shot CLI queries.
func newGateway() *upstream.Gateway {
	cfg := config.Config
	tokens := token.NewProvider(cfg.Token, cfg.Upstream.Timeout(), cfg.Upstream.ArrivalsURL)
	return upstream.NewGateway(cfg.Upstream, tokens)
}

func consultarCommand() *cli.Command {
	return &cli.Command{
		Name:  "consultar",
		Usage: "One-shot lookup of a stop's arrivals or a service's route",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "paradero", Usage: "stop code, e.g. PC205"},
			&cli.StringFlag{Name: "recorrido", Usage: "service code, e.g. 405"},
		},
		Action: func(c *cli.Context) error {
			if err := loadConfig(); err != nil {
				return err
			}
			gateway := newGateway()
			ctx := context.Background()

			if stop := c.String("paradero"); stop != "" {
				if err := redapi.ValidateStopCode(stop); err != nil {
					return err
				}
				arrivals, err := gateway.GetArrivals(ctx, stop)
				if err != nil {
					return err
				}
				fmt.Println(formatter.Summary(arrivals))
				return printJSON(formatter.Arrivals(arrivals))
			}

			if service := c.String("recorrido"); service != "" {
				if err := redapi.ValidateServiceCode(service); err != nil {
					return err
				}
				route, err := gateway.GetRoute(ctx, service)
				if err != nil {
					return err
				}
				out := map[string]any{}
				if route.Ida != nil {
					out["ida"] = formatter.FormatRoute(route.Ida)
				}
				if route.Regreso != nil {
					out["regreso"] = formatter.FormatRoute(route.Regreso)
				}
				return printJSON(out)
			}

			return cli.Exit("either --paradero or --recorrido is required", 2)
		},
	}
}

func monitorearCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitorear",
		Usage: "Poll a stop repeatedly and print service statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "paradero", Required: true, Usage: "stop code to poll"},
			&cli.IntFlag{Name: "muestras", Value: 5, Usage: "number of polls"},
			&cli.IntFlag{Name: "intervalo", Value: 10, Usage: "seconds between polls"},
		},
		Action: func(c *cli.Context) error {
			if err := loadConfig(); err != nil {
				return err
			}
			stop := c.String("paradero")
			if err := redapi.ValidateStopCode(stop); err != nil {
				return err
			}

			sampler := stats.NewSampler(newGateway())
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			samples, err := sampler.Collect(ctx, stop, c.Int("muestras"), time.Duration(c.Int("intervalo"))*time.Second)
			if err != nil && len(samples) == 0 {
				return err
			}
			return printJSON(stats.Compute(samples))
		},
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
