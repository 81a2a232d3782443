// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"fidelia/cli/internal/xdg"
)

// DefaultBaseURL is the Fidelia API origin used when no override is configured.
const DefaultBaseURL = "https://localhost:7273/api/v1"

// DefaultTimeout bounds every API request issued by the client.
const DefaultTimeout = 10 * time.Second

// Config holds non-sensitive CLI settings.
type Config struct {
	BaseURL        string    `json:"base_url"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	Endpoints      Endpoints `json:"endpoints"`
}

// Endpoints contains REST API endpoint paths relative to the base URL.
type Endpoints struct {
	ValidateToken string `json:"validate_token"` // e.g., "/Auth/ValidateToken"
	Login         string `json:"login"`          // e.g., "/Auth/Login"
	Register      string `json:"register"`       // e.g., "/Auth/Register"
	Events        string `json:"events"`         // e.g., "/Eventos/GetAllEventos"
	Event         string `json:"event"`          // e.g., "/Eventos/GetEventoByGuid"
	Attend        string `json:"attend"`         // e.g., "/AsistenciaEventos/CrearAsistencia"
	Card          string `json:"card"`           // e.g., "/TarjetaFidelidad/GetByGuid"
}

// defaultEndpoints returns the endpoint paths published by the Fidelia backend.
func defaultEndpoints() Endpoints {
	return Endpoints{
		ValidateToken: "/Auth/ValidateToken",
		Login:         "/Auth/Login",
		Register:      "/Auth/Register",
		Events:        "/Eventos/GetAllEventos",
		Event:         "/Eventos/GetEventoByGuid",
		Attend:        "/AsistenciaEventos/CrearAsistencia",
		Card:          "/TarjetaFidelidad/GetByGuid",
	}
}

// defaults returns the built-in configuration.
func defaults() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
		Endpoints:      defaultEndpoints(),
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// FIDELIA_BASE_URL overrides the configured origin.
func Load() (Config, error) {
	c := defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(c), nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	c = fillMissing(c)
	return applyEnv(c), nil
}

// fillMissing backfills zero-valued fields so partial config files keep working.
func fillMissing(c Config) Config {
	d := defaults()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	if c.Endpoints.ValidateToken == "" {
		c.Endpoints.ValidateToken = d.Endpoints.ValidateToken
	}
	if c.Endpoints.Login == "" {
		c.Endpoints.Login = d.Endpoints.Login
	}
	if c.Endpoints.Register == "" {
		c.Endpoints.Register = d.Endpoints.Register
	}
	if c.Endpoints.Events == "" {
		c.Endpoints.Events = d.Endpoints.Events
	}
	if c.Endpoints.Event == "" {
		c.Endpoints.Event = d.Endpoints.Event
	}
	if c.Endpoints.Attend == "" {
		c.Endpoints.Attend = d.Endpoints.Attend
	}
	if c.Endpoints.Card == "" {
		c.Endpoints.Card = d.Endpoints.Card
	}
	return c
}

// applyEnv applies environment overrides on top of the loaded config.
func applyEnv(c Config) Config {
	if v := os.Getenv("FIDELIA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	return c
}

// Timeout returns the configured request timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
