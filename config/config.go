package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taobot/taobot/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig     `json:"http" yaml:"http"`
	Log     LogConfig      `json:"log" yaml:"log"`
	Docs    DocsConfig     `json:"docs" yaml:"docs"`
	CORS    CORSConfig     `json:"cors" yaml:"cors"`
	Tracing *TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	// Endpoints limits the mounted operation groups; empty mounts all.
	Endpoints []string `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

type HTTPConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// DocsConfig controls the API documentation registered at startup.
type DocsConfig struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Path serves the interactive documentation page.
	Path string `json:"path" yaml:"path"`
	// JSONPath serves the machine-readable OpenAPI document.
	JSONPath string `json:"json_path" yaml:"json_path"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// CORSConfig mirrors the request origin back when enabled. Credentials are
// allowed unless explicitly turned off.
type CORSConfig struct {
	Disabled         bool     `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	AllowCredentials *bool    `json:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty"`
	AllowedHeaders   []string `json:"allowed_headers,omitempty" yaml:"allowed_headers,omitempty"`
	ExposedHeaders   []string `json:"exposed_headers,omitempty" yaml:"exposed_headers,omitempty"`
}

// Credentials reports whether credentialed cross-origin requests are allowed.
func (c CORSConfig) Credentials() bool {
	return c.AllowCredentials == nil || *c.AllowCredentials
}

type TracingConfig struct {
	ServiceName string `json:"service_name" yaml:"service_name"`
	// Exporter is one of "none", "stdout" or "otlp".
	Exporter string `json:"exporter" yaml:"exporter"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = constants.DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = constants.DefaultLogLevel
	}
	if c.Docs.Title == "" {
		c.Docs.Title = constants.DefaultAPITitle
	}
	if c.Docs.Version == "" {
		c.Docs.Version = constants.DefaultAPIVersion
	}
	if c.Docs.Path == "" {
		c.Docs.Path = constants.DefaultDocsPath
	}
	if c.Docs.JSONPath == "" {
		c.Docs.JSONPath = constants.DefaultJSONPath
	}
	if c.Tracing != nil && c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = constants.DefaultServiceName
	}
}

// ApplyEnv overrides config values from the process environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(constants.EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", constants.EnvPort, v, err)
		}
		c.HTTP.Port = port
	}
	if v := os.Getenv(constants.EnvHost); v != "" {
		c.HTTP.Host = v
	}
	if v := os.Getenv(constants.EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvEndpoints)); v != "" {
		c.Endpoints = splitList(v)
	}
	if v := os.Getenv(constants.EnvTracingExporter); v != "" {
		if c.Tracing == nil {
			c.Tracing = &TracingConfig{}
		}
		c.Tracing.Exporter = v
	}
	if v := os.Getenv(constants.EnvOTLPEndpoint); v != "" && c.Tracing != nil {
		c.Tracing.Endpoint = v
	}
	return nil
}

// Addr returns the host:port the local listener binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// LoadConfig reads a JSON or YAML config file, validates it against the
// embedded schema and applies defaults. The file format is chosen by
// extension; anything other than .yaml/.yml is treated as JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	// Round-trip through JSON so both formats share the json tags.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Load reads the config at path when it exists, falls back to defaults when
// it does not, and applies environment overrides in both cases.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// decodeDocument returns the file as a generic JSON value. YAML input is
// re-encoded as JSON first so schema validation sees JSON number types.
func decodeDocument(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if raw == nil {
			raw = map[string]any{}
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		data = converted
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
