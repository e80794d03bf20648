package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultBackendURL      = "https://ocr-backend.noumaanahamed.workers.dev"
	DefaultImageBaseURL    = "https://storage.googleapis.com/swayam-node1-production.appspot.com"
	DefaultAnalysisPrompt  = "Analyze this assignment question and provide a concise answer"
	EnvPrefix              = "NPTEL_APP"
	defaultServerPort      = ":8080"
	defaultLogFile         = "logs/app.log"
	defaultAllowedOrigin   = "http://localhost:8080"
	defaultTimeoutDisabled = 0
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// BackendConfig points at the OCR backend. A zero timeout means requests never time out.
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type StorageConfig struct {
	ImageBaseURL string `mapstructure:"image_base_url"`
}

type AnalyzerConfig struct {
	Prompt string `mapstructure:"prompt"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load reads config.yaml from the given paths (./config and . when none are given)
// and overlays NPTEL_APP_* environment variables. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("warning: config.yaml not found, falling back to defaults and environment variables")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.mode", "release")
	v.SetDefault("backend.base_url", DefaultBackendURL)
	v.SetDefault("backend.timeout_seconds", defaultTimeoutDisabled)
	v.SetDefault("storage.image_base_url", DefaultImageBaseURL)
	v.SetDefault("analyzer.prompt", DefaultAnalysisPrompt)
	v.SetDefault("cors.allowed_origins", []string{defaultAllowedOrigin})
	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("log.level", "info")
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url cannot be empty")
	}
	if c.Storage.ImageBaseURL == "" {
		return errors.New("storage.image_base_url cannot be empty")
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be >= 0, got %d", c.Backend.TimeoutSeconds)
	}
	if strings.TrimSpace(c.Analyzer.Prompt) == "" {
		return errors.New("analyzer.prompt cannot be empty")
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	c.Storage.ImageBaseURL = strings.TrimRight(c.Storage.ImageBaseURL, "/")
	return nil
}

func (c *Config) IsDebug() bool {
	return c.Server.Mode == "debug"
}
