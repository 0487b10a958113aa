package config

import (
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port  string
	Env   string // development, production
	Share bool   // listen on all interfaces instead of loopback

	// Inference
	OllamaHost      string
	AnalysisTimeout time.Duration // zero means no timeout

	// Limits
	MaxUploadSizeMB    int
	RateLimitPerMinute int

	// Logging
	LogFile string
}

// Load reads configuration from command-line flags, falling back to
// environment variables and an optional .env file.
func Load() (*Config, error) {
	return load(flag.CommandLine, os.Args[1:])
}

func load(fs *flag.FlagSet, args []string) (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "7860"), "Server port")
	fs.StringVar(&cfg.Env, "env", getEnv("ENV", "development"), "Environment (development, production)")
	fs.BoolVar(&cfg.Share, "share", getEnvBool("SHARE", false), "Expose the UI on all network interfaces")
	fs.StringVar(&cfg.OllamaHost, "ollama-host", getEnv("OLLAMA_HOST", "http://127.0.0.1:11434"), "Ollama server address")
	fs.DurationVar(&cfg.AnalysisTimeout, "analysis-timeout", getEnvDuration("ANALYSIS_TIMEOUT", 0), "Timeout for one analysis (0 disables)")

	cfg.MaxUploadSizeMB = getEnvInt("MAX_UPLOAD_SIZE_MB", 20)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 30)
	cfg.LogFile = getEnv("LOG_FILE", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("PORT must be a valid port number, got %q", c.Port)
	}

	if _, err := c.OllamaURL(); err != nil {
		return err
	}

	if c.AnalysisTimeout < 0 {
		return fmt.Errorf("ANALYSIS_TIMEOUT must not be negative")
	}

	if c.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive")
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// Addr is the listen address: loopback only unless sharing is enabled.
func (c *Config) Addr() string {
	host := "127.0.0.1"
	if c.Share {
		host = ""
	}
	return net.JoinHostPort(host, c.Port)
}

// OllamaURL parses OllamaHost. A bare host or host:port gets the http
// scheme, matching what the ollama CLI accepts.
func (c *Config) OllamaURL() (*url.URL, error) {
	raw := c.OllamaHost
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		u, err = url.Parse("http://" + raw)
	}
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("OLLAMA_HOST is not a valid address: %q", raw)
	}
	return u, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
