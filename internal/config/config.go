// Package config handles configuration and the .reviewhut directory
// structure. Every project that uses ReviewHut gets a .reviewhut/ folder
// created in its root, holding the config file, custom form definitions,
// persisted sessions, and logs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reviewhut/reviewhut/internal/gating"
)

// ReviewHutDir is the name of the directory created in each project.
const ReviewHutDir = ".reviewhut"

const defaultProjectConfigYAML = `# reviewhut project configuration
version: 1

business:
  name: My Business
  welcome_text: How was your experience with My Business?
  social_preview_title: Do you want to leave us a review?
  google_review_url: ""
  review_link_base: https://go.reviewhut.com
  review_link_url: ""

gating:
  enabled: true
  threshold: 3

api:
  endpoint: ""
  timeout_seconds: 30
`

// BusinessConfig models the business profile shown on the review page.
type BusinessConfig struct {
	Name               string `yaml:"name"`
	WelcomeText        string `yaml:"welcome_text,omitempty"`
	SocialPreviewTitle string `yaml:"social_preview_title,omitempty"`
	GoogleReviewURL    string `yaml:"google_review_url,omitempty"`
	ReviewLinkBase     string `yaml:"review_link_base,omitempty"`
	ReviewLinkURL      string `yaml:"review_link_url,omitempty"`
}

// GatingConfig models the review-gating defaults. Enabled is a pointer so
// an omitted key defaults to true instead of false.
type GatingConfig struct {
	Enabled   *bool `yaml:"enabled,omitempty"`
	Threshold int   `yaml:"threshold,omitempty"`
}

// APIConfig models the intake submission endpoint.
type APIConfig struct {
	Endpoint       string `yaml:"endpoint,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// ProjectConfig models .reviewhut/config.yaml.
type ProjectConfig struct {
	Version  int            `yaml:"version"`
	Business BusinessConfig `yaml:"business"`
	Gating   GatingConfig   `yaml:"gating"`
	API      APIConfig      `yaml:"api"`
}

// Config holds the runtime configuration for ReviewHut.
type Config struct {
	// ProjectDir is the directory where the user ran `reviewhut` from.
	ProjectDir string

	// ReviewHutProjectDir is ProjectDir/.reviewhut.
	ReviewHutProjectDir string

	Project ProjectConfig
}

// InitReviewHutDir creates the .reviewhut directory structure in the given
// project directory and seeds a default config file on first run.
//
// Structure created:
// .reviewhut/
// ├── forms/   <- custom form definitions (*.yaml)
// ├── state/   <- persisted wizard sessions
// └── logs/    <- funnel activity log
func InitReviewHutDir(projectDir string) error {
	root := filepath.Join(projectDir, ReviewHutDir)
	dirs := []string{
		filepath.Join(root, "forms"),
		filepath.Join(root, "state"),
		filepath.Join(root, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig creates a Config populated from .reviewhut/config.yaml, falling
// back to defaults when the file does not exist yet.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:          projectDir,
		ReviewHutProjectDir: filepath.Join(projectDir, ReviewHutDir),
		Project:             defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FormsDir returns the directory scanned for custom form definitions.
func (c *Config) FormsDir() string {
	return filepath.Join(c.ReviewHutProjectDir, "forms")
}

// StateDir returns the directory used for persisted wizard sessions.
func (c *Config) StateDir() string {
	return filepath.Join(c.ReviewHutProjectDir, "state")
}

// LogsDir returns the directory that holds the funnel activity log.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ReviewHutProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ReviewHutProjectDir, "config.yaml")
}

// APITimeout returns the submission timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	if c.Project.API.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Project.API.TimeoutSeconds) * time.Second
}

// GatingSettings assembles the gating engine settings from project config.
func (c *Config) GatingSettings() gating.Settings {
	enabled := true
	if c.Project.Gating.Enabled != nil {
		enabled = *c.Project.Gating.Enabled
	}
	return gating.Settings{
		Enabled:           enabled,
		RatingThreshold:   c.Project.Gating.Threshold,
		ExternalReviewURL: c.Project.Business.GoogleReviewURL,
	}
}

// SetGatingEnabled updates the gating flag and persists the config. Callers
// are expected to have routed the disable direction through the gating
// toggle's confirmation flow already.
func (c *Config) SetGatingEnabled(enabled bool) error {
	c.Project.Gating.Enabled = &enabled
	return c.saveProjectConfig()
}

// SetReviewLinkURL records a (re)generated short link and persists it.
func (c *Config) SetReviewLinkURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("config: review link url is required")
	}
	c.Project.Business.ReviewLinkURL = url
	return c.saveProjectConfig()
}

// SetSocialPreviewTitle updates the share title and persists it.
func (c *Config) SetSocialPreviewTitle(title string) error {
	c.Project.Business.SocialPreviewTitle = strings.TrimSpace(title)
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Business: BusinessConfig{
			Name:               "My Business",
			SocialPreviewTitle: "Do you want to leave us a review?",
			ReviewLinkBase:     "https://go.reviewhut.com",
		},
		Gating: GatingConfig{Threshold: gating.DefaultRatingThreshold},
		API:    APIConfig{TimeoutSeconds: 30},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Business.Name == "" {
		pc.Business.Name = "My Business"
	}
	if pc.Business.ReviewLinkBase == "" {
		pc.Business.ReviewLinkBase = "https://go.reviewhut.com"
	}
	if pc.Gating.Threshold == 0 {
		pc.Gating.Threshold = gating.DefaultRatingThreshold
	}
	if pc.API.TimeoutSeconds == 0 {
		pc.API.TimeoutSeconds = 30
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Business.Name = strings.TrimSpace(pc.Business.Name)
	pc.Business.WelcomeText = strings.TrimSpace(pc.Business.WelcomeText)
	pc.Business.SocialPreviewTitle = strings.TrimSpace(pc.Business.SocialPreviewTitle)
	pc.Business.GoogleReviewURL = strings.TrimSpace(pc.Business.GoogleReviewURL)
	pc.Business.ReviewLinkBase = strings.TrimSpace(pc.Business.ReviewLinkBase)
	pc.Business.ReviewLinkURL = strings.TrimSpace(pc.Business.ReviewLinkURL)
	pc.API.Endpoint = strings.TrimSpace(pc.API.Endpoint)
	if pc.Business.WelcomeText == "" && pc.Business.Name != "" {
		pc.Business.WelcomeText = fmt.Sprintf("How was your experience with %s?", pc.Business.Name)
	}
}

func (pc ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Business.Name == "" {
		return fmt.Errorf("business.name is required")
	}
	if pc.Gating.Threshold < 1 || pc.Gating.Threshold > 5 {
		return fmt.Errorf("gating.threshold must be between 1 and 5")
	}
	if pc.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must be >= 0")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.ReviewHutProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure reviewhut dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
