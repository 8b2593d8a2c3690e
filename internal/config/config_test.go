package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reviewhut/reviewhut/internal/gating"
)

func TestInitReviewHutDirCreatesStructure(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitReviewHutDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, sub := range []string{"forms", "state", "logs"} {
		info, err := os.Stat(filepath.Join(projectDir, ReviewHutDir, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", sub, err)
		}
	}
	if _, err := os.Stat(filepath.Join(projectDir, ReviewHutDir, "config.yaml")); err != nil {
		t.Fatalf("expected seeded config file: %v", err)
	}
}

func TestInitReviewHutDirKeepsExistingConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitReviewHutDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	path := filepath.Join(projectDir, ReviewHutDir, "config.yaml")
	custom := []byte("version: 1\nbusiness:\n  name: Acme\n")
	if err := os.WriteFile(path, custom, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := InitReviewHutDir(projectDir); err != nil {
		t.Fatalf("second init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != string(custom) {
		t.Fatalf("existing config was overwritten")
	}
}

func TestNewConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Project.Business.Name != "My Business" {
		t.Fatalf("unexpected default business name: %q", cfg.Project.Business.Name)
	}
	settings := cfg.GatingSettings()
	if !settings.Enabled {
		t.Fatalf("gating must default to enabled")
	}
	if settings.RatingThreshold != gating.DefaultRatingThreshold {
		t.Fatalf("unexpected default threshold: %d", settings.RatingThreshold)
	}
}

func TestNewConfigParsesProjectFile(t *testing.T) {
	projectDir := t.TempDir()
	dir := filepath.Join(projectDir, ReviewHutDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	contents := `version: 1
business:
  name: Acme Diner
  google_review_url: https://g.page/r/acme/review
gating:
  enabled: false
  threshold: 4
api:
  endpoint: https://api.example.com/intake
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	settings := cfg.GatingSettings()
	if settings.Enabled {
		t.Fatalf("expected gating disabled")
	}
	if settings.RatingThreshold != 4 {
		t.Fatalf("expected threshold 4, got %d", settings.RatingThreshold)
	}
	if settings.ExternalReviewURL != "https://g.page/r/acme/review" {
		t.Fatalf("unexpected external review url: %q", settings.ExternalReviewURL)
	}
	if cfg.Project.Business.WelcomeText != "How was your experience with Acme Diner?" {
		t.Fatalf("welcome text not derived: %q", cfg.Project.Business.WelcomeText)
	}
	if cfg.Project.API.Endpoint != "https://api.example.com/intake" {
		t.Fatalf("unexpected endpoint: %q", cfg.Project.API.Endpoint)
	}
}

func TestGatingEnabledDefaultsTrueWhenOmitted(t *testing.T) {
	projectDir := t.TempDir()
	dir := filepath.Join(projectDir, ReviewHutDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	contents := "version: 1\nbusiness:\n  name: Acme\ngating:\n  threshold: 2\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if !cfg.GatingSettings().Enabled {
		t.Fatalf("omitted gating.enabled must default to true")
	}
}

func TestNewConfigRejectsBadThreshold(t *testing.T) {
	projectDir := t.TempDir()
	dir := filepath.Join(projectDir, ReviewHutDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	contents := "version: 1\nbusiness:\n  name: Acme\ngating:\n  threshold: 9\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewConfig(projectDir); err == nil {
		t.Fatalf("expected validation error for threshold 9")
	}
}

func TestSettersPersist(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitReviewHutDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if err := cfg.SetGatingEnabled(false); err != nil {
		t.Fatalf("set gating: %v", err)
	}
	if err := cfg.SetReviewLinkURL("https://go.reviewhut.com/x7k2pq"); err != nil {
		t.Fatalf("set review link: %v", err)
	}
	if err := cfg.SetSocialPreviewTitle("  Leave Acme a review  "); err != nil {
		t.Fatalf("set title: %v", err)
	}

	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if reloaded.GatingSettings().Enabled {
		t.Fatalf("disabled gating did not persist")
	}
	if reloaded.Project.Business.ReviewLinkURL != "https://go.reviewhut.com/x7k2pq" {
		t.Fatalf("review link did not persist: %q", reloaded.Project.Business.ReviewLinkURL)
	}
	if reloaded.Project.Business.SocialPreviewTitle != "Leave Acme a review" {
		t.Fatalf("title not trimmed/persisted: %q", reloaded.Project.Business.SocialPreviewTitle)
	}
}

func TestSetReviewLinkURLRequiresValue(t *testing.T) {
	cfg, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if err := cfg.SetReviewLinkURL("  "); err == nil {
		t.Fatalf("expected error for blank review link")
	}
}
