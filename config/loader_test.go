package config

import (
	"os"
	"testing"
	"time"
)

const sampleConfig = `
server:
  port: 8080
  rateLimit:
    max: 30
    windowSeconds: 10
upstream:
  timeoutMS: 8000
token:
  mode: provisioned
  value: config-token
  ttlMinutes: 15
stats:
  maxSamples: 10
logLevel: debug
`

// chtemp runs the loader from a temp dir so it never picks up a real config.
func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(dir+"/config.yml", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAppConfig(t *testing.T) {
	dir := chtemp(t)
	writeConfig(t, dir, sampleConfig)

	if err := LoadAppConfig(); err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if Config.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", Config.Server.Port)
	}
	if Config.Upstream.Timeout() != 8*time.Second {
		t.Errorf("upstream timeout = %v, want 8s", Config.Upstream.Timeout())
	}
	if Config.Token.Mode != ModeProvisioned || Config.Token.Value != "config-token" {
		t.Errorf("unexpected token config: %+v", Config.Token)
	}
	if Config.Token.TTL() != 15*time.Minute {
		t.Errorf("token TTL = %v, want 15m", Config.Token.TTL())
	}
	if Config.LogLevel != "debug" {
		t.Errorf("logLevel = %q, want debug", Config.LogLevel)
	}

	// Defaults fill what the file leaves out.
	if Config.Upstream.ArrivalsURL != defaultArrivalsURL {
		t.Errorf("arrivalsURL = %q, want default", Config.Upstream.ArrivalsURL)
	}
	if Config.Stats.DefaultSamples != 5 || Config.Stats.MaxSamples != 10 {
		t.Errorf("unexpected stats bounds: %+v", Config.Stats)
	}
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	dir := chtemp(t)
	writeConfig(t, dir, sampleConfig)

	t.Setenv("RED_API_PORT", "9090")
	t.Setenv("RED_API_MODE", "interactive")
	t.Setenv("RED_API_TOKEN", "env-token")
	t.Setenv("RED_API_LOG_LEVEL", "warn")

	if err := LoadAppConfig(); err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if Config.Server.Port != 9090 {
		t.Errorf("port = %d, want env override 9090", Config.Server.Port)
	}
	if Config.Token.Mode != ModeInteractive {
		t.Errorf("mode = %q, want env override interactive", Config.Token.Mode)
	}
	if Config.Token.Value != "env-token" {
		t.Errorf("token value = %q, want env override", Config.Token.Value)
	}
	if Config.LogLevel != "warn" {
		t.Errorf("logLevel = %q, want env override warn", Config.LogLevel)
	}
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	chtemp(t)

	if err := LoadAppConfig(); err == nil {
		t.Fatal("expected error when no config file exists")
	}
}

func TestLoadAppConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad mode", "server:\n  port: 3000\ntoken:\n  mode: sideways\n"},
		{"bad log level", "server:\n  port: 3000\nlogLevel: loud\n"},
		{"bad strategy", "server:\n  port: 3000\ntoken:\n  strategies: [env, teleport]\n"},
		{"malformed yaml", "server: [port\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chtemp(t)
			writeConfig(t, dir, tt.yaml)
			if err := LoadAppConfig(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTokenConfig_StrategyOrder(t *testing.T) {
	tests := []struct {
		name string
		cfg  TokenConfig
		want []string
	}{
		{"explicit list wins", TokenConfig{Mode: ModeProvisioned, Strategies: []string{"scrape"}}, []string{"scrape"}},
		{"provisioned default", TokenConfig{Mode: ModeProvisioned}, []string{"env", "redirect", "scrape", "fallback"}},
		{"interactive default", TokenConfig{Mode: ModeInteractive}, []string{"scrape", "fallback"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.StrategyOrder()
			if len(got) != len(tt.want) {
				t.Fatalf("StrategyOrder() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("StrategyOrder() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
