package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const fileName = "dodge.yaml"

type Config struct {
	DataDir    string
	DBPath     string
	JournalDir string
	PluginDir  string
	LogDir     string

	Mode            string
	SessionDuration time.Duration
	FocusSource     string
	Seed            int64
	ArenaWidth      float64
	ArenaHeight     float64

	MindfulEnabled bool
	Debug          bool
	LogLevel       string
	ListenAddr     string
}

// fileConfig mirrors the optional dodge.yaml in the data directory.
type fileConfig struct {
	Mode            string  `yaml:"mode"`
	SessionDuration string  `yaml:"session_duration"`
	FocusSource     string  `yaml:"focus_source"`
	Seed            int64   `yaml:"seed"`
	ArenaWidth      float64 `yaml:"arena_width"`
	ArenaHeight     float64 `yaml:"arena_height"`
	Mindful         *struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"mindful"`
	LogLevel   string `yaml:"log_level"`
	ListenAddr string `yaml:"listen_addr"`
}

// New resolves configuration for dataDir: defaults, then dataDir/dodge.yaml,
// then .env files, then DODGE_* environment variables.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := defaults(dataDir)
	if err := cfg.applyFile(filepath.Join(dataDir, fileName)); err != nil {
		return Config{}, err
	}
	loadDotEnv(".env", filepath.Join(dataDir, ".env"))
	cfg.applyEnv()
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults(dataDir string) Config {
	return Config{
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, ".dodge", "dodge.db"),
		JournalDir:      filepath.Join(dataDir, "mindful"),
		PluginDir:       filepath.Join(dataDir, "plugins"),
		LogDir:          filepath.Join(dataDir, ".dodge", "logs"),
		Mode:            "gaze",
		SessionDuration: 60 * time.Second,
		FocusSource:     "manual",
		ArenaWidth:      100,
		ArenaHeight:     40,
		MindfulEnabled:  true,
		LogLevel:        "info",
		ListenAddr:      "127.0.0.1:8787",
	}
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	if fc.Mode != "" {
		c.Mode = fc.Mode
	}
	if fc.SessionDuration != "" {
		d, err := time.ParseDuration(fc.SessionDuration)
		if err != nil {
			return fmt.Errorf("session_duration: %w", err)
		}
		c.SessionDuration = d
	}
	if fc.FocusSource != "" {
		c.FocusSource = fc.FocusSource
	}
	if fc.Seed != 0 {
		c.Seed = fc.Seed
	}
	if fc.ArenaWidth > 0 {
		c.ArenaWidth = fc.ArenaWidth
	}
	if fc.ArenaHeight > 0 {
		c.ArenaHeight = fc.ArenaHeight
	}
	if fc.Mindful != nil && fc.Mindful.Enabled != nil {
		c.MindfulEnabled = *fc.Mindful.Enabled
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.ListenAddr != "" {
		c.ListenAddr = fc.ListenAddr
	}
	return nil
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func (c *Config) applyEnv() {
	c.Mode = getEnv("DODGE_MODE", c.Mode)
	c.FocusSource = getEnv("DODGE_FOCUS_SOURCE", c.FocusSource)
	c.LogLevel = getEnv("DODGE_LOG_LEVEL", c.LogLevel)
	c.ListenAddr = getEnv("DODGE_LISTEN_ADDR", c.ListenAddr)
	c.DBPath = getEnv("DODGE_DB_PATH", c.DBPath)
	c.SessionDuration = getEnvDuration("DODGE_SESSION_DURATION", c.SessionDuration)
	c.MindfulEnabled = getEnvBool("DODGE_MINDFUL_ENABLED", c.MindfulEnabled)
	c.Debug = getEnvBool("DODGE_DEBUG", c.Debug)
	if v, ok := os.LookupEnv("DODGE_SEED"); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			c.Seed = n
		}
	}
}

// ApplyFlags layers command-line overrides on top of the resolved config.
// debug implies the debug log level unless level names another one.
func (c *Config) ApplyFlags(debug bool, level string) error {
	if debug {
		c.Debug = true
		c.LogLevel = "debug"
	}
	if level != "" {
		c.LogLevel = level
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case "gaze", "catch":
	default:
		return fmt.Errorf("mode must be gaze or catch, got %q", c.Mode)
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.ArenaWidth < 40 || c.ArenaHeight < 16 {
		return fmt.Errorf("arena must be at least 40x16, got %.0fx%.0f", c.ArenaWidth, c.ArenaHeight)
	}
	if strings.TrimSpace(c.FocusSource) == "" {
		return fmt.Errorf("focus source cannot be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
