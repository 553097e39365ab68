package ollama

import (
	"time"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/httpclient"
	"github.com/kbukum/chatkit/resilience"
	"github.com/kbukum/chatkit/validation"
)

// DefaultHost is the address of a local Ollama server.
const DefaultHost = "http://localhost:11434"

// Config configures a Client. Keys not named here are treated as create
// arguments: control parameters such as temperature move under options and
// anything unrecognized is dropped.
type Config struct {
	Host    string                 `yaml:"host" mapstructure:"host" validate:"required,url"`
	Model   string                 `yaml:"model" mapstructure:"model" validate:"required"`
	Timeout time.Duration          `yaml:"timeout" mapstructure:"timeout"`
	Headers map[string]string      `yaml:"headers" mapstructure:"headers"`
	Auth    *httpclient.AuthConfig `yaml:"auth" mapstructure:"auth"`
	TLS     *httpclient.TLSConfig  `yaml:"tls" mapstructure:"tls"`

	// CircuitBreaker makes calls fail fast while the server is down.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// KeepAlive is a duration ("5m") or seconds ("300", "-1").
	KeepAlive string         `yaml:"keep_alive" mapstructure:"keep_alive" validate:"keepalive"`
	Think     *bool          `yaml:"think" mapstructure:"think"`
	Options   map[string]any `yaml:"options" mapstructure:"options"`

	// ModelInfo overrides the capability registry. Required for models the
	// registry does not list.
	ModelInfo *chat.ModelInfo `yaml:"model_info" mapstructure:"model_info"`

	Extra map[string]any `yaml:",inline" mapstructure:",remain"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// httpConfig is the transport configuration of the backend.
func (c *Config) httpConfig() httpclient.Config {
	hc := httpclient.Config{
		BaseURL: c.Host,
		Timeout: c.Timeout,
		Auth:    c.Auth,
		TLS:     c.TLS,
		Headers: c.Headers,
	}
	if c.CircuitBreaker != nil {
		cb := *c.CircuitBreaker
		if cb.Name == "" {
			cb.Name = Name
		}
		hc.CircuitBreaker = &cb
	}
	return hc
}

// createArgs collects the request arguments the configuration implies.
func (c *Config) createArgs() map[string]any {
	m := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		m[k] = v
	}
	m["model"] = c.Model
	if c.KeepAlive != "" {
		m["keep_alive"] = c.KeepAlive
	}
	if c.Think != nil {
		m["think"] = *c.Think
	}
	if len(c.Options) > 0 {
		m["options"] = c.Options
	}
	return m
}
