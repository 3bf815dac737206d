package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default endpoints for the Red provider. Overridable because the provider
// has moved hosts before.
const (
	defaultArrivalsURL = "https://www.red.cl/predictor-web/web/getprediccion"
	defaultRouteURL    = "https://www.red.cl/restservice_v2/rest/conocerecorrido"
	defaultScrapeURL   = "https://www.red.cl/planifica-tu-viaje/cuando-llega/"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	Config = cfg
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if p := os.Getenv("RED_API_PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			cfg.Server.Port = port
		}
	}
	if m := os.Getenv("RED_API_MODE"); m != "" {
		cfg.Token.Mode = m
	}
	if t := os.Getenv("RED_API_TOKEN"); t != "" {
		cfg.Token.Value = t
	}
	if l := os.Getenv("RED_API_LOG_LEVEL"); l != "" {
		cfg.LogLevel = l
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.RateLimit.Max == 0 {
		cfg.Server.RateLimit.Max = 60
	}
	if cfg.Server.RateLimit.WindowSeconds == 0 {
		cfg.Server.RateLimit.WindowSeconds = 60
	}
	if cfg.Upstream.ArrivalsURL == "" {
		cfg.Upstream.ArrivalsURL = defaultArrivalsURL
	}
	if cfg.Upstream.RouteURL == "" {
		cfg.Upstream.RouteURL = defaultRouteURL
	}
	if cfg.Token.Mode == "" {
		cfg.Token.Mode = ModeInteractive
	}
	if cfg.Token.ScrapeURL == "" {
		cfg.Token.ScrapeURL = defaultScrapeURL
	}
	if len(cfg.Token.FallbackURLs) == 0 {
		cfg.Token.FallbackURLs = []string{defaultScrapeURL, "https://www.red.cl/"}
	}
	if cfg.Stats.DefaultSamples == 0 {
		cfg.Stats.DefaultSamples = 5
	}
	if cfg.Stats.MaxSamples == 0 {
		cfg.Stats.MaxSamples = 20
	}
	if cfg.Stats.DefaultIntervalSec == 0 {
		cfg.Stats.DefaultIntervalSec = 10
	}
	if cfg.Stats.MaxIntervalSec == 0 {
		cfg.Stats.MaxIntervalSec = 60
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
