// Package config loads the verisure configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultYAML is the configuration written by `verisure config init` and the
// values Default returns.
const DefaultYAML = `# verisure configuration
base_url: http://localhost:5000

# Delay before following the login/register redirect.
redirect_delay: 1s

# Filter HTML fragments through a UGC policy before they reach the page.
sanitize_content: false

templates:
  # Page template engine: pongo2 or go-template.
  engine: pongo2

theme:
  name: verisure
  variant: ""
  tokens: {}

log:
  level: info
  development: false

wallet:
  # JSON-RPC endpoint used outside the browser. Empty means no wallet.
  rpc_url: ""

server:
  addr: 127.0.0.1:8080
  static_dir: ""
  script: ""
  runtime_script: ""
`

// Templates selects the page template engine.
type Templates struct {
	Engine string `yaml:"engine"`
}

// Theme selects the page theme.
type Theme struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Wallet configures the non-browser wallet bridge.
type Wallet struct {
	RPCURL string `yaml:"rpc_url"`
}

// Server configures the page server.
type Server struct {
	Addr          string `yaml:"addr"`
	StaticDir     string `yaml:"static_dir"`
	Script        string `yaml:"script"`
	RuntimeScript string `yaml:"runtime_script"`
}

// Config is the full configuration file.
type Config struct {
	BaseURL         string        `yaml:"base_url"`
	RedirectDelay   time.Duration `yaml:"redirect_delay"`
	SanitizeContent bool          `yaml:"sanitize_content"`
	Templates       Templates     `yaml:"templates"`
	Theme           Theme         `yaml:"theme"`
	Log             Log           `yaml:"log"`
	Wallet          Wallet        `yaml:"wallet"`
	Server          Server        `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:       "http://localhost:5000",
		RedirectDelay: time.Second,
		Templates:     Templates{Engine: "pongo2"},
		Theme:         Theme{Name: "verisure", Tokens: map[string]string{}},
		Log:           Log{Level: "info"},
		Server:        Server{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	base, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("config: base_url %q must be an absolute URL", c.BaseURL)
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("config: redirect_delay %s must not be negative", c.RedirectDelay)
	}
	switch c.Templates.Engine {
	case "", "pongo2", "go-template":
	default:
		return fmt.Errorf("config: templates.engine %q must be pongo2 or go-template", c.Templates.Engine)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: log.level: %w", err)
		}
	}
	if rpc := strings.TrimSpace(c.Wallet.RPCURL); rpc != "" {
		u, err := url.Parse(rpc)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: wallet.rpc_url %q must be an absolute URL", c.Wallet.RPCURL)
		}
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	return nil
}
