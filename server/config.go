// ABOUTME: Server configuration from environment variables and an optional
// ABOUTME: YAML file. Env wins over file; remote binds require an explicit opt-in.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoProjectFolder = errors.New(
		"PROJECT_FOLDER is not set; the server needs a Move project directory to operate on",
	)
	ErrNoFormatterCmd = errors.New(
		"MOVEFMT_CMD is not set; the format_project tool needs a formatter command",
	)
	ErrNonLoopbackBind = errors.New(
		"BIND is a non-loopback address but ALLOW_REMOTE is not true; set ALLOW_REMOTE=true to expose the server",
	)
)

// Config holds server configuration. Zero state beyond this is kept between
// tool invocations.
type Config struct {
	Bind          string `yaml:"bind"`           // listen address (BIND, or 127.0.0.1:PORT; default 127.0.0.1:8085)
	ProjectFolder string `yaml:"project_folder"` // Move project root (PROJECT_FOLDER, required)
	FormatterCmd  string `yaml:"movefmt_cmd"`    // movefmt invocation (MOVEFMT_CMD, required)
	AllowRemote   bool   `yaml:"allow_remote"`   // allow non-loopback binds (ALLOW_REMOTE, default false)
	LogLevel      string `yaml:"log_level"`      // zap level (LOG_LEVEL, default debug)
	LogFormat     string `yaml:"log_format"`     // "console" or "json" (LOG_FORMAT, default console)
}

// LoadConfig builds a Config from an optional YAML file overlaid with
// environment variables, then validates it. An empty path (or a missing file
// at the default path) means env-only configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Bind:      "127.0.0.1:8085",
		LogLevel:  "debug",
		LogFormat: "console",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env-only
		case err != nil:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Bind = fmt.Sprintf("127.0.0.1:%d", port)
		}
	}
	if v := os.Getenv("BIND"); v != "" {
		cfg.Bind = v
	}
	if v := os.Getenv("PROJECT_FOLDER"); v != "" {
		cfg.ProjectFolder = v
	}
	if v := os.Getenv("MOVEFMT_CMD"); v != "" {
		cfg.FormatterCmd = v
	}
	if v := os.Getenv("ALLOW_REMOTE"); v == "true" || v == "1" || v == "yes" {
		cfg.AllowRemote = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func (c *Config) validate() error {
	if c.ProjectFolder == "" {
		return ErrNoProjectFolder
	}
	if c.FormatterCmd == "" {
		return ErrNoFormatterCmd
	}

	// Refuse non-loopback binds unless explicitly opted in. Only 127.0.0.0/8,
	// ::1, and "localhost" count as safe.
	if !c.AllowRemote {
		if host, _, err := net.SplitHostPort(c.Bind); err == nil && host != "" {
			ip := net.ParseIP(host)
			switch {
			case ip != nil && ip.IsLoopback():
			case host == "localhost":
			default:
				return fmt.Errorf("%w: BIND=%s", ErrNonLoopbackBind, c.Bind)
			}
		}
	}

	return nil
}
