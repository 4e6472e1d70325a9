// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything the application needs to find its data and
// identify its author.
type Config struct {
	DBPath       string   `yaml:"db_path"`
	TemplatesDir string   `yaml:"templates_dir"`
	TagsFile     string   `yaml:"tags_file"`
	StyleFile    string   `yaml:"style_file"`
	VocabFile    string   `yaml:"vocab_file"`
	UserFullName string   `yaml:"user_full_name"`
	Recipients   []string `yaml:"recipients"`

	AI AIConfig `yaml:"ai"`
}

// AIConfig configures the optional text-generation providers.
type AIConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DefaultProvider string `yaml:"default_provider"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), applies environment overrides, then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DBPath = getEnv("WORKMAIN_DB_PATH", c.DBPath)
	c.TemplatesDir = getEnv("WORKMAIN_TEMPLATES_DIR", c.TemplatesDir)
	c.TagsFile = getEnv("WORKMAIN_TAGS_FILE", c.TagsFile)
	c.StyleFile = getEnv("WORKMAIN_STYLE_FILE", c.StyleFile)
	c.VocabFile = getEnv("WORKMAIN_VOCAB_FILE", c.VocabFile)
	c.UserFullName = getEnv("WORKMAIN_USER_NAME", c.UserFullName)
	if v := os.Getenv("WORKMAIN_RECIPIENTS"); v != "" {
		c.Recipients = splitList(v)
	}
	c.AI.DefaultProvider = getEnv("WORKMAIN_AI_PROVIDER", c.AI.DefaultProvider)
	c.AI.BaseURL = getEnv("WORKMAIN_AI_URL", c.AI.BaseURL)
	c.AI.Model = getEnv("WORKMAIN_AI_MODEL", c.AI.Model)
	if v := os.Getenv("WORKMAIN_AI_ENABLED"); v != "" {
		c.AI.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

func (c *Config) applyDefaults() {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".workmain")

	if c.DBPath == "" {
		c.DBPath = filepath.Join(base, "workmain.db")
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = filepath.Join(base, "templates")
	}
	if c.TagsFile == "" {
		c.TagsFile = filepath.Join(base, "tags.json")
	}
	if c.StyleFile == "" {
		c.StyleFile = filepath.Join(base, "writing_style.json")
	}
	if c.VocabFile == "" {
		c.VocabFile = filepath.Join(base, "vocabulary.json")
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "http://localhost:11434"
	}
	if c.AI.DefaultProvider == "" {
		c.AI.DefaultProvider = "claude"
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".workmain", "config.yaml")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
