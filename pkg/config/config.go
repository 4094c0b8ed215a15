package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Auth modes accepted in the configuration file
const (
	AuthModeNone   = "none"
	AuthModeHeader = "header"
	AuthModeToken  = "token"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Auth    AuthConfig   `yaml:"auth"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig contains settings for the TCP listener
type ServerConfig struct {
	Host         string `yaml:"host"`          // bind address
	Port         int    `yaml:"port"`          // listen port
	ReadTimeout  int    `yaml:"read_timeout"`  // per-connection read deadline in seconds, 0 disables
	WriteTimeout int    `yaml:"write_timeout"` // per-connection write deadline in seconds, 0 disables
}

// AuthConfig contains settings for the request authorization gate
type AuthConfig struct {
	Mode   string `yaml:"mode"`   // none, header or token
	Header string `yaml:"header"` // header name checked by the header and token modes
	Token  string `yaml:"token"`  // expected value in token mode
}

// LogConfig contains settings for logging
type LogConfig struct {
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // maximum size in megabytes
	MaxBackups  int    `yaml:"max_backups"` // maximum number of old log files to retain
	MaxAge      int    `yaml:"max_age"`     // maximum number of days to retain old log files
	Compress    bool   `yaml:"compress"`    // compress determines if the rotated log files should be compressed
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         65432,
			ReadTimeout:  10, // seconds
			WriteTimeout: 10, // seconds
		},
		Auth: AuthConfig{
			Mode:   AuthModeNone,
			Header: "Authorization",
		},
		Logging: LogConfig{
			LogToFile:   false,
			LogFilePath: "simple-http-server.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// Default returns a configuration with default values
// This is an alias for LoadDefault for backward compatibility
func Default() *Config {
	return LoadDefault()
}

// Load reads configuration from a file and merges it with default values
func Load(configPath string) (*Config, error) {
	// Start with default configuration
	cfg := LoadDefault()

	// Read configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Create a temporary config to parse the file
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge server configuration
	if fileCfg.Server.Host != "" {
		cfg.Server.Host = fileCfg.Server.Host
	}
	if fileCfg.Server.Port > 0 {
		cfg.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Server.ReadTimeout > 0 {
		cfg.Server.ReadTimeout = fileCfg.Server.ReadTimeout
	}
	if fileCfg.Server.WriteTimeout > 0 {
		cfg.Server.WriteTimeout = fileCfg.Server.WriteTimeout
	}

	// Merge auth configuration
	if fileCfg.Auth.Mode != "" {
		cfg.Auth.Mode = fileCfg.Auth.Mode
	}
	if fileCfg.Auth.Header != "" {
		cfg.Auth.Header = fileCfg.Auth.Header
	}
	if fileCfg.Auth.Token != "" {
		cfg.Auth.Token = fileCfg.Auth.Token
	}

	// Merge logging configuration
	cfg.Logging.LogToFile = fileCfg.Logging.LogToFile
	if fileCfg.Logging.LogFilePath != "" {
		cfg.Logging.LogFilePath = fileCfg.Logging.LogFilePath
	}
	if fileCfg.Logging.MaxSize > 0 {
		cfg.Logging.MaxSize = fileCfg.Logging.MaxSize
	}
	if fileCfg.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = fileCfg.Logging.MaxBackups
	}
	if fileCfg.Logging.MaxAge > 0 {
		cfg.Logging.MaxAge = fileCfg.Logging.MaxAge
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads configuration from a file, or returns the default
// configuration when the file does not exist
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		cfg = LoadDefault()
		applyEnvOverrides(cfg)
	}
	return cfg
}

// applyEnvOverrides lets SERVER_HOST and SERVER_PORT take precedence over
// both defaults and file values
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Auth.Mode {
	case AuthModeNone, AuthModeHeader:
	case AuthModeToken:
		if c.Auth.Token == "" {
			return fmt.Errorf("auth mode %q requires a token", AuthModeToken)
		}
	default:
		return fmt.Errorf("unknown auth mode: %q", c.Auth.Mode)
	}

	if c.Auth.Mode != AuthModeNone && c.Auth.Header == "" {
		return fmt.Errorf("auth mode %q requires a header name", c.Auth.Mode)
	}

	return nil
}

// Address returns the host:port string the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
