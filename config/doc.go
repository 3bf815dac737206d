// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A small set of environment variables (RED_API_PORT, RED_API_MODE,
// RED_API_TOKEN, RED_API_LOG_LEVEL) override the file so deployments can be
// reconfigured without editing it.
package config
