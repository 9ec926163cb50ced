// Package config loads the YAML configuration for the parse and serve
// commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/card-statement-parser/internal/merchant"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
	"github.com/insightdelivered/card-statement-parser/internal/writer"
)

// Config is the top-level configuration file.
type Config struct {
	InputDir      string   `yaml:"input_dir"`
	OutputDir     string   `yaml:"output_dir"`
	OutputFormats []string `yaml:"output_formats"`
	LogLevel      string   `yaml:"log_level"`

	// Workers bounds how many statements are parsed at once.
	Workers int `yaml:"workers"`

	Parser        ParserConfig     `yaml:"parser"`
	MerchantRules []MerchantRule   `yaml:"merchant_rules"`
	Categorize    CategorizeConfig `yaml:"categorize"`
	Server        ServerConfig     `yaml:"server"`
}

// ParserConfig tunes the statement heuristics.
type ParserConfig struct {
	// MinInlineYield is a pointer so an explicit 0 (never fall back to the
	// split layout) can be told apart from an unset value.
	MinInlineYield *int `yaml:"min_inline_yield"`
	SplitLookahead int  `yaml:"split_lookahead"`
	SplitMaxParts  int  `yaml:"split_max_parts"`
	FallbackYear   int  `yaml:"fallback_year"`
	FallbackMonth  int  `yaml:"fallback_month"`
}

// MerchantRule is a user rule tried before the built-in merchant table.
type MerchantRule struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
}

type CategorizeConfig struct {
	Enabled       bool   `yaml:"enabled"`
	OverridesFile string `yaml:"overrides_file"`
	// GeminiModel enables the Gemini categorizer when set, for example
	// "gemini-2.5-flash".
	GeminiModel string `yaml:"gemini_model"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BodyLimit is the maximum upload size in bytes.
	BodyLimit int `yaml:"body_limit"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig reads, defaults and validates a configuration file. A missing
// file is not an error; defaults are returned instead.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./statements"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if len(cfg.OutputFormats) == 0 {
		cfg.OutputFormats = []string{"json"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	d := parser.DefaultOptions()
	if cfg.Parser.MinInlineYield == nil {
		n := d.MinInlineYield
		cfg.Parser.MinInlineYield = &n
	}
	if cfg.Parser.SplitLookahead <= 0 {
		cfg.Parser.SplitLookahead = d.SplitLookahead
	}
	if cfg.Parser.SplitMaxParts <= 0 {
		cfg.Parser.SplitMaxParts = d.SplitMaxParts
	}
	if cfg.Parser.FallbackMonth == 0 {
		cfg.Parser.FallbackMonth = int(d.FallbackMonth)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.BodyLimit <= 0 {
		cfg.Server.BodyLimit = 32 << 20
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	for _, f := range c.OutputFormats {
		if _, err := writer.New(f); err != nil {
			return err
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	if c.Parser.MinInlineYield != nil && *c.Parser.MinInlineYield < 0 {
		return fmt.Errorf("parser.min_inline_yield must not be negative")
	}
	if c.Parser.FallbackMonth < 1 || c.Parser.FallbackMonth > 12 {
		return fmt.Errorf("parser.fallback_month must be 1-12, got %d", c.Parser.FallbackMonth)
	}
	if c.Parser.FallbackYear < 0 {
		return fmt.Errorf("parser.fallback_year must not be negative")
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	return nil
}

// ParserOptions converts the parser section into parser.Options. A zero
// fallback year means the current year.
func (c *Config) ParserOptions() parser.Options {
	opts := parser.DefaultOptions()
	if c.Parser.MinInlineYield != nil {
		opts.MinInlineYield = *c.Parser.MinInlineYield
	}
	if c.Parser.SplitLookahead > 0 {
		opts.SplitLookahead = c.Parser.SplitLookahead
	}
	if c.Parser.SplitMaxParts > 0 {
		opts.SplitMaxParts = c.Parser.SplitMaxParts
	}
	if c.Parser.FallbackYear > 0 {
		opts.FallbackYear = c.Parser.FallbackYear
	}
	if c.Parser.FallbackMonth >= 1 && c.Parser.FallbackMonth <= 12 {
		opts.FallbackMonth = time.Month(c.Parser.FallbackMonth)
	}
	return opts
}

// Rules compiles the configured merchant rules ahead of the built-in table.
func (c *Config) Rules() ([]merchant.Rule, error) {
	rules := make([]merchant.Rule, 0, len(c.MerchantRules))
	for i, mr := range c.MerchantRules {
		r, err := merchant.NewRule(mr.Pattern, mr.Name)
		if err != nil {
			return nil, fmt.Errorf("merchant_rules[%d]: %w", i, err)
		}
		rules = append(rules, r)
	}
	return append(rules, merchant.DefaultRules()...), nil
}
