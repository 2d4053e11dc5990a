package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	raw := `{"timeline":{"api_key":"k","api_secret":"s","access_token":"t","access_secret":"ts"},"llm":{"api_key":"llmkey"},"smtp":{"host":"mail.example.com","user":"agent","password":"pw","recipient":"me@example.com"}}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.General.Listen != ":3001" {
		t.Errorf("expected default listen :3001, got %q", cfg.General.Listen)
	}
	if cfg.Classify.MinRelevance != 0.7 {
		t.Errorf("expected default min_relevance 0.7, got %v", cfg.Classify.MinRelevance)
	}
	if cfg.Classify.CallInterval != 500*time.Millisecond {
		t.Errorf("expected default call_interval 500ms, got %v", cfg.Classify.CallInterval)
	}
	if cfg.Timeline.MaxResults != 50 {
		t.Errorf("expected default max_results 50, got %d", cfg.Timeline.MaxResults)
	}
	if cfg.Schedule.Cron != "0 */4 * * *" {
		t.Errorf("unexpected default cron: %q", cfg.Schedule.Cron)
	}
	if cfg.RunLog.Capacity != 100 {
		t.Errorf("expected default capacity 100, got %d", cfg.RunLog.Capacity)
	}
	if cfg.SMTP.From != "agent" {
		t.Errorf("expected from to fall back to smtp user, got %q", cfg.SMTP.From)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := ClassifyConfig{MinRelevance: 1.5}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_relevance > 1")
	}
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	cfg := TimelineConfig{MaxResults: 50}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
