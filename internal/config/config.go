package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/yokitheyo/elm-notebook/internal/events"
)

const (
	DefaultPort           = 8007
	DefaultCompilerPath   = "elm"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxStderrBytes = 1 << 20
	DefaultRetention      = time.Hour
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Compiler struct {
		Path           string        `yaml:"path"`
		Args           []string      `yaml:"args"`
		Timeout        time.Duration `yaml:"timeout"`
		MaxStderrBytes int           `yaml:"max_stderr_bytes"`
	} `yaml:"compiler"`
	Scratch struct {
		Dir       string        `yaml:"dir"`
		Retention time.Duration `yaml:"retention"`
	} `yaml:"scratch"`
	Events struct {
		NATSURL string `yaml:"nats_url"`
		Subject string `yaml:"subject"`
	} `yaml:"events"`
}

// LoadConfig reads path if it exists, applies environment overrides and
// fills in defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("ELM_PATH"); v != "" {
		c.Compiler.Path = v
	}
	if v := os.Getenv("ELM_COMPILE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ELM_COMPILE_TIMEOUT %q: %w", v, err)
		}
		c.Compiler.Timeout = d
	}
	if v := os.Getenv("ELM_SCRATCH_DIR"); v != "" {
		c.Scratch.Dir = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.Events.NATSURL = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Compiler.Path == "" {
		c.Compiler.Path = DefaultCompilerPath
	}
	if c.Compiler.Timeout == 0 {
		c.Compiler.Timeout = DefaultTimeout
	}
	if c.Compiler.MaxStderrBytes == 0 {
		c.Compiler.MaxStderrBytes = DefaultMaxStderrBytes
	}
	if c.Scratch.Dir == "" {
		c.Scratch.Dir = filepath.Join(os.TempDir(), "elm-notebook")
	}
	if c.Scratch.Retention == 0 {
		c.Scratch.Retention = DefaultRetention
	}
	if c.Events.Subject == "" {
		c.Events.Subject = events.DefaultSubject
	}
}
