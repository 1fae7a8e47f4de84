package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Documents DocumentsConfig   `yaml:"documents"`
	Paper     PaperConfig       `yaml:"paper"`
	Site      SiteConfig        `yaml:"site"`
	Events    EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Documents.Validate(); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	if err := c.Paper.Validate(); err != nil {
		return fmt.Errorf("paper: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DocumentsConfig describes the directory of Markdown documents.
type DocumentsConfig struct {
	Path         string `yaml:"path"`
	Suffix       string `yaml:"suffix"`
	HiddenMarker string `yaml:"hidden_marker"`
}

// Validate validates the documents configuration.
func (c *DocumentsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Suffix, validation.Required),
		validation.Field(&c.HiddenMarker, validation.Required, validation.RuneLength(1, 1)),
	)
}

// PaperConfig configures the PaperMC version lookup.
type PaperConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the PaperMC configuration.
func (c *PaperConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
	)
}

// SiteConfig holds redirect targets, the contact webhook and the project
// catalogue. Empty URLs disable the corresponding route.
type SiteConfig struct {
	HomeURL       string        `yaml:"home_url"`
	DiscordURL    string        `yaml:"discord_url"`
	WebhookURL    string        `yaml:"webhook_url"`
	ProjectsPath  string        `yaml:"projects_path"`
	ContactLimit  int           `yaml:"contact_limit"`
	ContactWindow time.Duration `yaml:"contact_window"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HomeURL, is.URL),
		validation.Field(&c.DiscordURL, is.URL),
		validation.Field(&c.WebhookURL, is.URL),
		validation.Field(&c.ContactLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.ContactWindow, validation.Required, validation.Min(time.Second)),
	)
}

// EventsConfig controls the document change stream.
type EventsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 3000,
			},
		},
		Documents: DocumentsConfig{
			Path:         "../blog-md",
			Suffix:       ".md",
			HiddenMarker: "_",
		},
		Paper: PaperConfig{
			BaseURL: "https://papermc.io/api/v2/projects/paper",
			Timeout: 10 * time.Second,
		},
		Site: SiteConfig{
			ProjectsPath:  "projects.json5",
			ContactLimit:  5,
			ContactWindow: time.Minute,
		},
		Events: EventsConfig{
			Enabled:  true,
			Throttle: 2 * time.Second,
		},
	}
}
