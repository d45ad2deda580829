package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the bridge daemon.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Local    LocalConfig    `yaml:"local"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the local HTTP listener configuration. The bridge
// serves the on-device app shell, so the host should stay on loopback.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LocalConfig holds the on-device store location.
type LocalConfig struct {
	StorePath string `yaml:"store_path"`
}

// DatabaseConfig holds the remote record database configuration. An empty
// Host disables the remote path entirely; the daemon then runs local-only.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether a remote database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// StorageConfig holds the object storage configuration for media blobs.
type StorageConfig struct {
	Region      string `yaml:"region"`
	AudioBucket string `yaml:"audio_bucket"`
	VideoBucket string `yaml:"video_bucket"`
	AccessKey   string `yaml:"access_key"`
	SecretKey   string `yaml:"secret_key"`
	Endpoint    string `yaml:"endpoint"` // custom endpoint for S3-compatible providers
}

// AuthConfig holds the token verification configuration.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8787
	}
	if cfg.Local.StorePath == "" {
		cfg.Local.StorePath = ".bloom/local.db"
	}
	if cfg.Storage.AudioBucket == "" {
		cfg.Storage.AudioBucket = "audio-recordings"
	}
	if cfg.Storage.VideoBucket == "" {
		cfg.Storage.VideoBucket = "video-recordings"
	}

	return &cfg, nil
}
