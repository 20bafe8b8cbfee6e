package infinite

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config contains the settings for talking to one Infinite platform API.
//
// Example configuration (HCL):
//
//	base_url   = "https://infinite.example.com/api"
//	api_key    = env("INFINITE_API_KEY")
//	timeout    = "30s"
//	tls_verify = true
//
//	endpoints {
//	  shares = "/social/share"
//	}
type Config struct {
	// BaseURL is prepended to every resource path.
	// Example: "https://infinite.example.com/api"
	BaseURL string `json:"baseUrl"`

	// APIKey is sent as the infinite_api_key query parameter when set.
	APIKey string `json:"-"`

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development with self-signed certs.
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// Timeout for a single request.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// Endpoints holds the base path of each resource group.
	Endpoints Endpoints `json:"endpoints"`
}

// Endpoints are the per-resource base paths, relative to Config.BaseURL.
type Endpoints struct {
	Auth         string `hcl:"auth,optional" yaml:"auth" json:"auth"`
	Sources      string `hcl:"sources,optional" yaml:"sources" json:"sources"`
	MapReduce    string `hcl:"map_reduce,optional" yaml:"map_reduce" json:"mapReduce"`
	SavedQueries string `hcl:"saved_queries,optional" yaml:"saved_queries" json:"savedQueries"`
	Documents    string `hcl:"documents,optional" yaml:"documents" json:"documents"`
	Features     string `hcl:"features,optional" yaml:"features" json:"features"`
	Communities  string `hcl:"communities,optional" yaml:"communities" json:"communities"`
	Persons      string `hcl:"persons,optional" yaml:"persons" json:"persons"`
	Shares       string `hcl:"shares,optional" yaml:"shares" json:"shares"`
	DataGroups   string `hcl:"data_groups,optional" yaml:"data_groups" json:"dataGroups"`
	UserGroups   string `hcl:"user_groups,optional" yaml:"user_groups" json:"userGroups"`
}

// DefaultEndpoints returns the platform's standard resource paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Auth:         "/auth",
		Sources:      "/config/source",
		MapReduce:    "/custom/mapreduce",
		SavedQueries: "/custom/savedquery",
		Documents:    "/knowledge/document",
		Features:     "/knowledge/feature",
		Communities:  "/social/community",
		Persons:      "/social/person",
		Shares:       "/social/share",
		DataGroups:   "/social/group/data",
		UserGroups:   "/social/group/user",
	}
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		TLSVerify: &tlsVerify,
		Timeout:   DefaultTimeout,
		Endpoints: DefaultEndpoints(),
	}
}

// ApplyDefaults fills unset fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	c.Endpoints.fill(defaults.Endpoints)
}

func (e *Endpoints) fill(d Endpoints) {
	set := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	set(&e.Auth, d.Auth)
	set(&e.Sources, d.Sources)
	set(&e.MapReduce, d.MapReduce)
	set(&e.SavedQueries, d.SavedQueries)
	set(&e.Documents, d.Documents)
	set(&e.Features, d.Features)
	set(&e.Communities, d.Communities)
	set(&e.Persons, d.Persons)
	set(&e.Shares, d.Shares)
	set(&e.DataGroups, d.DataGroups)
	set(&e.UserGroups, d.UserGroups)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.By(nonNegativeDuration)),
		validation.Field(&c.Endpoints),
	)
}

// Validate checks that every resource path is set.
func (e Endpoints) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Auth, validation.Required),
		validation.Field(&e.Sources, validation.Required),
		validation.Field(&e.MapReduce, validation.Required),
		validation.Field(&e.SavedQueries, validation.Required),
		validation.Field(&e.Documents, validation.Required),
		validation.Field(&e.Features, validation.Required),
		validation.Field(&e.Communities, validation.Required),
		validation.Field(&e.Persons, validation.Required),
		validation.Field(&e.Shares, validation.Required),
		validation.Field(&e.DataGroups, validation.Required),
		validation.Field(&e.UserGroups, validation.Required),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	parsedURL, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", parsedURL.Scheme)
	}
	return nil
}

func nonNegativeDuration(value interface{}) error {
	d, _ := value.(time.Duration)
	if d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// NewHTTPClient creates a configured HTTP client. The cookie jar keeps the
// session cookie issued by auth/login for subsequent calls.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	// Configure TLS verification
	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
		Jar:       jar,
	}
}
