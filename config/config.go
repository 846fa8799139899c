package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds server and extractor configuration. The site URLs default to
// the live hosts; tests override them to point extractors at mock servers.
type Config struct {
	Addr      string
	UserAgent string
	Timeout   time.Duration
	Verbose   bool

	BoiBazarAPIURL    string
	BoiBazarSiteURL   string
	DheeBooksAPIURL   string
	DheeBooksSiteURL  string
	BookShoperBaseURL string
	HarekRokomBaseURL string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:      ":5000",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		Timeout:   10 * time.Second,
		Verbose:   false,

		BoiBazarAPIURL:    "https://m.boibazar.com",
		BoiBazarSiteURL:   "https://www.boibazar.com",
		DheeBooksAPIURL:   "https://server.dheebooks.com",
		DheeBooksSiteURL:  "https://www.dheebooks.com",
		BookShoperBaseURL: "https://bookshoper.com",
		HarekRokomBaseURL: "https://harekrokom.com",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	siteURLs := []struct {
		name  string
		value string
	}{
		{"boibazar api URL", c.BoiBazarAPIURL},
		{"boibazar site URL", c.BoiBazarSiteURL},
		{"dheebooks api URL", c.DheeBooksAPIURL},
		{"dheebooks site URL", c.DheeBooksSiteURL},
		{"bookshoper base URL", c.BookShoperBaseURL},
		{"harekrokom base URL", c.HarekRokomBaseURL},
	}
	for _, s := range siteURLs {
		if s.value == "" {
			return fmt.Errorf("%s cannot be empty", s.name)
		}
		parsed, err := url.Parse(s.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", s.name, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must include a scheme and host", s.name)
		}
	}

	return nil
}

// EnvString reads a string environment variable.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, true, nil
}

// EnvDuration reads a duration environment variable such as "10s".
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return parsed, true, nil
}
