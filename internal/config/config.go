package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docoutline/internal/outline"
)

const envPrefix = "DOCOUTLINE"

type Config struct {
	Port string `mapstructure:"port"`

	// Auth; empty disables bearer auth on /api routes.
	APIKey string `mapstructure:"api_key"`

	// Worker pool
	WorkerCount  int `mapstructure:"worker_count"`
	MaxQueueSize int `mapstructure:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
	MaxPages       int   `mapstructure:"max_pages"` // 0 means no limit

	// Job state
	JobTTL          time.Duration `mapstructure:"job_ttl"`
	DocumentTimeout time.Duration `mapstructure:"document_timeout"`

	LogLevel string `mapstructure:"log_level"`

	// Heuristic thresholds for the outline engine.
	Engine outline.Options `mapstructure:"engine"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            "8090",
		WorkerCount:     4,
		MaxQueueSize:    100,
		MaxUploadBytes:  52428800, // 50MB
		MaxPages:        2000,
		JobTTL:          1 * time.Hour,
		DocumentTimeout: 30 * time.Second,
		LogLevel:        "info",
		Engine:          outline.DefaultOptions(),
	}
}

// Load reads defaults, then the config file, then DOCOUTLINE_* environment
// variables. Without cfgFile, ./docoutline.yaml and ~/.docoutline/docoutline.yaml
// are tried and may be absent.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("docoutline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.docoutline")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.clamp()
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("port", d.Port)
	v.SetDefault("api_key", d.APIKey)
	v.SetDefault("worker_count", d.WorkerCount)
	v.SetDefault("max_queue_size", d.MaxQueueSize)
	v.SetDefault("max_upload_bytes", d.MaxUploadBytes)
	v.SetDefault("max_pages", d.MaxPages)
	v.SetDefault("job_ttl", d.JobTTL)
	v.SetDefault("document_timeout", d.DocumentTimeout)
	v.SetDefault("log_level", d.LogLevel)

	e := d.Engine
	v.SetDefault("engine.merge_tolerance", e.MergeTolerance)
	v.SetDefault("engine.gap_threshold", e.GapThreshold)
	v.SetDefault("engine.right_edge_threshold", e.RightEdgeThreshold)
	v.SetDefault("engine.max_heading_words", e.MaxHeadingWords)
	v.SetDefault("engine.title_caption_words", e.TitleCaptionWords)
	v.SetDefault("engine.repeat_ratio", e.RepeatRatio)
	v.SetDefault("engine.max_boilerplate_words", e.MaxBoilerplateWords)
	v.SetDefault("engine.min_repeat_pages", e.MinRepeatPages)
}

// clamp replaces non-positive values with defaults.
func (c *Config) clamp() {
	d := Default()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxPages < 0 {
		c.MaxPages = 0
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.DocumentTimeout <= 0 {
		c.DocumentTimeout = d.DocumentTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

func (c Config) Validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("port %q is not a valid TCP port", c.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	// Zero leaves the engine default in place.
	if r := c.Engine.RepeatRatio; r < 0 || r > 1 {
		return fmt.Errorf("engine.repeat_ratio must be within (0, 1], or 0 for the default, got %v", r)
	}
	return nil
}

// ParseLevel maps a log level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// WriteDefault writes the default configuration to path as YAML.
func WriteDefault(path string) error {
	d := Default()
	doc := map[string]any{
		"port":             d.Port,
		"api_key":          d.APIKey,
		"worker_count":     d.WorkerCount,
		"max_queue_size":   d.MaxQueueSize,
		"max_upload_bytes": d.MaxUploadBytes,
		"max_pages":        d.MaxPages,
		"job_ttl":          d.JobTTL.String(),
		"document_timeout": d.DocumentTimeout.String(),
		"log_level":        d.LogLevel,
		"engine":           d.Engine,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	header := []byte(`# docoutline configuration
# Every key can be overridden with a DOCOUTLINE_ environment variable,
# e.g. DOCOUTLINE_WORKER_COUNT=8 or DOCOUTLINE_ENGINE_GAP_THRESHOLD=24.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
