package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// viper treats empty variables as unset
	t.Setenv("PORT", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("ANALYZER_PROVIDER", "")
	t.Setenv("ANALYZE_TIMEOUT", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasicConfig.Port != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.BasicConfig.Port)
	}
	if cfg.Addr() != "0.0.0.0:3000" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
	if cfg.BasicConfig.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MB ceiling, got %d", cfg.BasicConfig.MaxUploadBytes)
	}
	if cfg.Analyzer.Region != "us-west-2" {
		t.Fatalf("expected default region us-west-2, got %s", cfg.Analyzer.Region)
	}
	if cfg.Analyzer.Provider != ProviderBedrock {
		t.Fatalf("expected bedrock provider, got %s", cfg.Analyzer.Provider)
	}
	if cfg.Analyzer.ModelID != DefaultBedrockModel {
		t.Fatalf("unexpected model id %s", cfg.Analyzer.ModelID)
	}
	if cfg.Analyzer.MaxTokens != 1024 {
		t.Fatalf("expected max tokens 1024, got %d", cfg.Analyzer.MaxTokens)
	}
	if cfg.Analyzer.Timeout != 0 {
		t.Fatalf("expected no analyze timeout, got %v", cfg.Analyzer.Timeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("ANALYZE_TIMEOUT", "45s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasicConfig.Port != "8081" {
		t.Fatalf("expected port 8081, got %s", cfg.BasicConfig.Port)
	}
	if cfg.Analyzer.Region != "eu-central-1" {
		t.Fatalf("expected region eu-central-1, got %s", cfg.Analyzer.Region)
	}
	if cfg.Analyzer.Timeout != 45*time.Second {
		t.Fatalf("expected 45s timeout, got %v", cfg.Analyzer.Timeout)
	}
	if cfg.BasicConfig.LogLevel != "debug" {
		t.Fatalf("expected log level to be normalised, got %s", cfg.BasicConfig.LogLevel)
	}
}

func TestLoadFileWithEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: \"9000\"\naws_region: ap-south-1\nanalyzer_max_tokens: 512\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AWS_REGION", "us-east-1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasicConfig.Port != "9000" {
		t.Fatalf("expected port from file, got %s", cfg.BasicConfig.Port)
	}
	if cfg.Analyzer.MaxTokens != 512 {
		t.Fatalf("expected max tokens from file, got %d", cfg.Analyzer.MaxTokens)
	}
	if cfg.Analyzer.Region != "us-east-1" {
		t.Fatalf("expected env to win over file, got %s", cfg.Analyzer.Region)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidateProviders(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown provider",
			env:     map[string]string{"ANALYZER_PROVIDER": "llama"},
			wantErr: "invalid config",
		},
		{
			name:    "openai without key",
			env:     map[string]string{"ANALYZER_PROVIDER": "openai", "OPENAI_API_KEY": ""},
			wantErr: "OPENAI_API_KEY must be set",
		},
		{
			name: "gemini with key",
			env:  map[string]string{"ANALYZER_PROVIDER": "Gemini", "GEMINI_API_KEY": "k"},
		},
		{
			name:    "zero upload ceiling",
			env:     map[string]string{"MAX_UPLOAD_BYTES": "0"},
			wantErr: "MaxUploadBytes",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
