// Package config provides configuration helpers for go-grasp commands.
package config

import (
	"fmt"
	"os"
)

// Default engine configuration.
const (
	DefaultPort   = "8200"
	DefaultPreset = "sandbox"
)

// Port returns the HTTP port from GRASP_PORT env var.
// Falls back to the provided default if not set.
func Port(defaultPort string) string {
	if port := os.Getenv("GRASP_PORT"); port != "" {
		return port
	}
	return defaultPort
}

// ScenePreset returns the scene preset name from GRASP_PRESET env var.
// Falls back to the provided default if not set.
func ScenePreset(defaultPreset string) string {
	if preset := os.Getenv("GRASP_PRESET"); preset != "" {
		return preset
	}
	return defaultPreset
}

// ConfigFile returns the config file path from GRASP_CONFIG env var,
// or "" when unset (the engine then looks for grasp.toml in the cwd).
func ConfigFile() string {
	return os.Getenv("GRASP_CONFIG")
}

// EngineURL returns the engine HTTP base URL for client tools.
func EngineURL(host, port string) string {
	return fmt.Sprintf("http://%s:%s", host, port)
}

// EngineWSURL returns the engine websocket base URL for client tools.
func EngineWSURL(host, port string) string {
	return fmt.Sprintf("ws://%s:%s", host, port)
}
