// Package config loads the server configuration from a YAML file.
package config

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// PublicPathEnv overrides Website.PublicPath when set.
const PublicPathEnv = "PUBLIC_PATH"

type Config struct {
	Server  Server  `yaml:"server"`
	Website Website `yaml:"website"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

type Server struct {
	Host         string        `yaml:"host"`
	Port         uint16        `yaml:"port"`
	BufferSize   uint          `yaml:"buffer_size"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr is the host:port pair to listen on.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(int(s.Port)))
}

type Website struct {
	PublicPath string        `yaml:"public_path"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn or error.
	Format string `yaml:"format"` // text or json.
}

// SlogLevel parses Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.Wrapf(err, "parsing log level %q", l.Level)
	}
	return level, nil
}

type Metrics struct {
	// Addr is where /metrics is served. Empty disables the exporter.
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Server: Server{
			Host:         "localhost",
			Port:         24133,
			BufferSize:   1024,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Website: Website{
			PublicPath: "public",
			CacheTTL:   time.Minute,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path over Default. An empty path loads only the defaults.
// The environment is applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "reading config file")
		}
		if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "decoding config file %q", path)
		}
	}

	if p, ok := os.LookupEnv(PublicPathEnv); ok && p != "" {
		cfg.Website.PublicPath = p
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Server.BufferSize == 0 {
		return errors.New("server.buffer_size must be positive")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if c.Website.PublicPath == "" {
		return errors.New("website.public_path is required")
	}
	if c.Website.CacheTTL < 0 {
		return errors.New("website.cache_ttl must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
