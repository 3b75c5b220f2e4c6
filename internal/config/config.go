package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the coupon designer
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Canvas     CanvasConfig     `yaml:"canvas"`
	Compositor CompositorConfig `yaml:"compositor"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// CanvasConfig holds the output image dimensions
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CompositorConfig holds compositing settings
type CompositorConfig struct {
	LoadTimeoutSeconds int    `yaml:"load_timeout_seconds"`
	Watermark          string `yaml:"watermark"` // empty = embedded monogram
	Monogram           string `yaml:"monogram"`  // fallback text when the watermark fails
}

// LoadTimeout returns the per-composite resource load timeout.
func (c CompositorConfig) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutSeconds) * time.Second
}

// StorageConfig holds record store settings
type StorageConfig struct {
	Type      string `yaml:"type"` // "file" or "redis"
	DataDir   string `yaml:"data_dir"`
	MaxBytes  int64  `yaml:"max_bytes"`
	RedisAddr string `yaml:"redis_addr"`
	RedisKey  string `yaml:"redis_key"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Canvas.Width <= 0 {
		cfg.Canvas.Width = 1200
	}
	if cfg.Canvas.Height <= 0 {
		cfg.Canvas.Height = 675
	}
	if cfg.Compositor.LoadTimeoutSeconds == 0 {
		cfg.Compositor.LoadTimeoutSeconds = 15
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "file"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.RedisAddr == "" {
		cfg.Storage.RedisAddr = "localhost:6379"
	}
	if cfg.Storage.RedisKey == "" {
		cfg.Storage.RedisKey = "ai_coupons"
	}
	if cfg.Compositor.Monogram == "" {
		cfg.Compositor.Monogram = "SN"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadFromEnv loads configuration from file (when path is non-empty and
// exists) and then applies environment variable overrides.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = v
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if dir := os.Getenv("COUPON_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	if typ := os.Getenv("COUPON_STORAGE"); typ != "" {
		cfg.Storage.Type = typ
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Storage.RedisAddr = addr
	}
	if wm := os.Getenv("COUPON_WATERMARK"); wm != "" {
		cfg.Compositor.Watermark = wm
	}
	if mono := os.Getenv("COUPON_MONOGRAM"); mono != "" {
		cfg.Compositor.Monogram = mono
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}
