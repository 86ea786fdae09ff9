package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/query"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routekit.yaml"

	// DefaultURL is the initial URL of the in-memory history.
	DefaultURL = "http://localhost/"

	// DefaultAddr is the default playground listen address.
	DefaultAddr = "localhost:8080"
)

// Config represents routekit.yaml.
type Config struct {
	// URL is the initial URL of the in-memory history.
	URL string `yaml:"url,omitempty"`

	Serve       ServeConfig      `yaml:"serve,omitempty"`
	Routing     RoutingConfig    `yaml:"routing,omitempty"`
	Trace       TraceConfig      `yaml:"trace,omitempty"`
	Routers     []RouterConfig   `yaml:"routers,omitempty"`
	Redirectors []RedirectConfig `yaml:"redirectors,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig configures the playground server.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`
}

// RoutingConfig mirrors options.RoutingOptions. Absent fields keep the
// library defaults.
type RoutingConfig struct {
	HashMode                 string    `yaml:"hashMode,omitempty"`
	DefaultHash              HashValue `yaml:"defaultHash,omitempty"`
	DisallowPathRouting      *bool     `yaml:"disallowPathRouting,omitempty"`
	DisallowHashRouting      *bool     `yaml:"disallowHashRouting,omitempty"`
	DisallowMultiHashRouting *bool     `yaml:"disallowMultiHashRouting,omitempty"`
}

// TraceConfig mirrors kernel.TraceOptions.
type TraceConfig struct {
	RouterHierarchy bool `yaml:"routerHierarchy,omitempty"`
}

// RouterConfig describes one router.
type RouterConfig struct {
	ID string `yaml:"id,omitempty"`

	// Parent is the id of a router declared earlier in the file.
	Parent   string        `yaml:"parent,omitempty"`
	Hash     HashValue     `yaml:"hash,omitempty"`
	BasePath string        `yaml:"basePath,omitempty"`
	Routes   []RouteConfig `yaml:"routes,omitempty"`
}

// RouteConfig describes one route. Path and Regexp are exclusive.
type RouteConfig struct {
	Name              string `yaml:"name"`
	Path              string `yaml:"path,omitempty"`
	Regexp            string `yaml:"regexp,omitempty"`
	CaseSensitive     bool   `yaml:"caseSensitive,omitempty"`
	IgnoreForFallback bool   `yaml:"ignoreForFallback,omitempty"`
}

// RedirectConfig describes one redirector.
type RedirectConfig struct {
	Hash HashValue `yaml:"hash,omitempty"`

	// Parent is the id of a router providing the universe and base path.
	Parent  string       `yaml:"parent,omitempty"`
	Replace *bool        `yaml:"replace,omitempty"`
	Rules   []RuleConfig `yaml:"rules,omitempty"`
}

// RuleConfig describes one redirection.
type RuleConfig struct {
	Path          string `yaml:"path,omitempty"`
	Regexp        string `yaml:"regexp,omitempty"`
	CaseSensitive bool   `yaml:"caseSensitive,omitempty"`

	// Href is a text/template executed with the match parameters.
	Href    string       `yaml:"href"`
	GoTo    bool         `yaml:"goTo,omitempty"`
	Options *RuleOptions `yaml:"options,omitempty"`
}

// RuleOptions mirrors redirect.RedirectOptions.
type RuleOptions struct {
	Hash          HashValue     `yaml:"hash,omitempty"`
	Replace       *bool         `yaml:"replace,omitempty"`
	PreserveQuery PreserveValue `yaml:"preserveQuery,omitempty"`
	State         any           `yaml:"state,omitempty"`
}

// HashValue is a hash.Hash read from a YAML bool or string.
type HashValue struct {
	hash.Hash
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HashValue) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := hash.FromValue(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	h.Hash = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (h HashValue) MarshalYAML() (any, error) {
	return h.Value(), nil
}

// IsZero lets omitempty skip unset hashes.
func (h HashValue) IsZero() bool {
	return h.IsUnset()
}

// PreserveValue is a query.Preserve read from a YAML bool, string or list.
type PreserveValue struct {
	query.Preserve
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PreserveValue) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := query.PreserveFrom(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	p.Preserve = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p PreserveValue) MarshalYAML() (any, error) {
	switch {
	case p.All:
		return true, nil
	case len(p.Keys) == 1:
		return p.Keys[0], nil
	case len(p.Keys) > 1:
		return p.Keys, nil
	}
	return false, nil
}

// IsZero lets omitempty skip empty policies.
func (p PreserveValue) IsZero() bool {
	return p.Preserve.IsZero()
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		URL:   DefaultURL,
		Serve: ServeConfig{Addr: DefaultAddr},
	}
}

// Load reads configuration from the specified directory.
// It looks for routekit.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML").
			Wrap(err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
}

// RoutingUpdate converts the routing section for options.Registry.Set.
func (c *Config) RoutingUpdate() options.Update {
	return options.Update{
		HashMode:                 options.HashMode(c.Routing.HashMode),
		DefaultHash:              c.Routing.DefaultHash.Hash,
		DisallowPathRouting:      c.Routing.DisallowPathRouting,
		DisallowHashRouting:      c.Routing.DisallowHashRouting,
		DisallowMultiHashRouting: c.Routing.DisallowMultiHashRouting,
	}
}

// Validate checks if the configuration is valid. Router and redirector
// hashes are checked against the routing options when instantiated.
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || !u.IsAbs() {
		return invalid("url must be an absolute URL, got %q", c.URL)
	}
	if err := c.RoutingUpdate().Apply(options.Defaults()).Validate(); err != nil {
		return err
	}

	ids := make(map[string]bool, len(c.Routers))
	for i, r := range c.Routers {
		if r.ID != "" {
			if ids[r.ID] {
				return invalid("routers[%d]: duplicate router id %q", i, r.ID)
			}
		}
		if r.Parent != "" && !ids[r.Parent] {
			return invalid("routers[%d]: parent %q must be a router declared earlier", i, r.Parent)
		}
		names := make(map[string]bool, len(r.Routes))
		for j, route := range r.Routes {
			if route.Name == "" {
				return invalid("routers[%d].routes[%d]: name is required", i, j)
			}
			if names[route.Name] {
				return invalid("routers[%d].routes[%d]: duplicate route name %q", i, j, route.Name)
			}
			names[route.Name] = true
			if _, err := route.RouteInfo(); err != nil {
				return invalid("routers[%d].routes[%d]: %v", i, j, err)
			}
		}
		if r.ID != "" {
			ids[r.ID] = true
		}
	}

	for i, rd := range c.Redirectors {
		if rd.Parent != "" && !ids[rd.Parent] {
			return invalid("redirectors[%d]: unknown parent router %q", i, rd.Parent)
		}
		for j, rule := range rd.Rules {
			if _, err := rule.Redirection(); err != nil {
				return invalid("redirectors[%d].rules[%d]: %v", i, j, err)
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.Newf(errors.CodeConfigInvalid, format, args...)
}
