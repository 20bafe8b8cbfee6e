package infinite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of Config. Durations are strings ("30s").
type fileConfig struct {
	BaseURL   string     `hcl:"base_url" yaml:"base_url"`
	APIKey    string     `hcl:"api_key,optional" yaml:"api_key"`
	TLSVerify *bool      `hcl:"tls_verify,optional" yaml:"tls_verify"`
	Timeout   string     `hcl:"timeout,optional" yaml:"timeout"`
	Endpoints *Endpoints `hcl:"endpoints,block" yaml:"endpoints"`
}

// LoadConfig reads a Config from path on fs. Files ending in .yaml or .yml
// are decoded as YAML; .hcl and .json go through HCL, where env("NAME")
// reads an environment variable. Defaults are applied and the result is
// validated.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(src, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	case ".hcl", ".json":
		if err := hclsimple.Decode(path, src, evalContext(), &fc); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration file type: %s", path)
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (fc fileConfig) toConfig() (*Config, error) {
	cfg := &Config{
		BaseURL:   fc.BaseURL,
		APIKey:    fc.APIKey,
		TLSVerify: fc.TLSVerify,
	}

	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		cfg.Timeout = d
	}
	if fc.Endpoints != nil {
		cfg.Endpoints = *fc.Endpoints
	}

	return cfg, nil
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}
