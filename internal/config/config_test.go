package config

import (
	"flag"
	"io"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "SHARE", "OLLAMA_HOST", "ANALYSIS_TIMEOUT", "MAX_UPLOAD_SIZE_MB", "RATE_LIMIT_PER_MINUTE", "LOG_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "7860" {
		t.Errorf("unexpected port %q", cfg.Port)
	}
	if cfg.Addr() != "127.0.0.1:7860" {
		t.Errorf("expected loopback address, got %q", cfg.Addr())
	}
	if cfg.AnalysisTimeout != 0 {
		t.Errorf("expected no analysis timeout by default, got %v", cfg.AnalysisTimeout)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development environment by default")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("ANALYSIS_TIMEOUT", "5m")

	cfg, err := load(newFlagSet(), []string{"-port", "9100", "-share"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "9100" {
		t.Errorf("expected flag to win, got %q", cfg.Port)
	}
	if cfg.Addr() != ":9100" {
		t.Errorf("expected all-interfaces address, got %q", cfg.Addr())
	}
	if cfg.OllamaHost != "http://gpu-box:11434" {
		t.Errorf("unexpected ollama host %q", cfg.OllamaHost)
	}
	if cfg.AnalysisTimeout != 5*time.Minute {
		t.Errorf("unexpected timeout %v", cfg.AnalysisTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:               "7860",
			OllamaHost:         "http://127.0.0.1:11434",
			MaxUploadSizeMB:    20,
			RateLimitPerMinute: 30,
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = "http" }, true},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true},
		{"bare ollama host", func(c *Config) { c.OllamaHost = "localhost:11434" }, false},
		{"empty ollama host", func(c *Config) { c.OllamaHost = "" }, true},
		{"negative timeout", func(c *Config) { c.AnalysisTimeout = -time.Second }, true},
		{"zero upload size", func(c *Config) { c.MaxUploadSizeMB = 0 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestOllamaURLAddsScheme(t *testing.T) {
	c := &Config{OllamaHost: "localhost:11434"}
	u, err := c.OllamaURL()
	if err != nil {
		t.Fatalf("OllamaURL failed: %v", err)
	}
	if u.String() != "http://localhost:11434" {
		t.Errorf("unexpected url %q", u.String())
	}
}
