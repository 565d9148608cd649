// Package config loads the configuration of the Deep Origin CLI.
//
// Values are layered, from lowest to highest priority:
//   - built-in defaults
//   - the first user file found among ~/.deep-origin/config.yml and ./.deep-origin/config.yml
//   - an explicit file (e.g. from the DEEP_ORIGIN_CONFIG environment variable)
//   - environment variables prefixed with DEEP_ORIGIN_, nested keys being separated by "__"
//     (e.g. DEEP_ORIGIN_FEATURE_FLAGS__VARIABLES=true)
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding config keys
	EnvPrefix = "DEEP_ORIGIN"

	// EnvConfigFile names an explicit configuration file
	EnvConfigFile = EnvPrefix + "_CONFIG"

	envKeySeparator = "__"

	// Dir is the name of the directory holding the user configuration
	Dir = ".deep-origin"

	// FileName is the name of the user configuration file
	FileName = "config.yml"
)

// Config keys
const (
	KeyOrganizationID                  = "organization_id"
	KeyBenchID                         = "bench_id"
	KeyEnv                             = "env"
	KeyNucleusAPIEndpoint              = "nucleus_api_endpoint"
	KeyAPIEndpoint                     = "api_endpoint"
	KeyNucleusAPIRoute                 = "nucleus_api_route"
	KeyAuthDomain                      = "auth_domain"
	KeyAuthDeviceCodeEndpoint          = "auth_device_code_endpoint"
	KeyAuthTokenEndpoint               = "auth_token_endpoint"
	KeyAuthAudience                    = "auth_audience"
	KeyAuthGrantType                   = "auth_grant_type"
	KeyAuthClientID                    = "auth_client_id"
	KeyAuthClientSecret                = "auth_client_secret"
	KeyListBenchVariablesQueryTemplate = "list_bench_variables_query_template"
	KeyAPITokensFilename               = "api_tokens_filename"
	KeyVariablesCacheFilename          = "variables_cache_filename"
	KeyAutoInstallVariablesFilename    = "auto_install_variables_filename"
	KeyFeatureFlagsVariables           = "feature_flags.variables"
	KeyMaxRequestsPerSecond            = "max_requests_per_second"
)

// FeatureFlags toggle optional features
type FeatureFlags struct {
	Variables bool `mapstructure:"variables" json:"variables" yaml:"variables"`
}

// Config for the Deep Origin CLI and client library
type Config struct {
	OrganizationID                  string       `mapstructure:"organization_id" json:"organization_id" yaml:"organization_id"`
	BenchID                         string       `mapstructure:"bench_id" json:"bench_id" yaml:"bench_id"`
	Env                             string       `mapstructure:"env" json:"env" yaml:"env"`
	NucleusAPIEndpoint              string       `mapstructure:"nucleus_api_endpoint" json:"nucleus_api_endpoint" yaml:"nucleus_api_endpoint"`
	APIEndpoint                     string       `mapstructure:"api_endpoint" json:"api_endpoint" yaml:"api_endpoint"`
	NucleusAPIRoute                 string       `mapstructure:"nucleus_api_route" json:"nucleus_api_route" yaml:"nucleus_api_route"`
	AuthDomain                      string       `mapstructure:"auth_domain" json:"auth_domain" yaml:"auth_domain"`
	AuthDeviceCodeEndpoint          string       `mapstructure:"auth_device_code_endpoint" json:"auth_device_code_endpoint" yaml:"auth_device_code_endpoint"`
	AuthTokenEndpoint               string       `mapstructure:"auth_token_endpoint" json:"auth_token_endpoint" yaml:"auth_token_endpoint"`
	AuthAudience                    string       `mapstructure:"auth_audience" json:"auth_audience" yaml:"auth_audience"`
	AuthGrantType                   string       `mapstructure:"auth_grant_type" json:"auth_grant_type" yaml:"auth_grant_type"`
	AuthClientID                    string       `mapstructure:"auth_client_id" json:"auth_client_id" yaml:"auth_client_id"`
	AuthClientSecret                string       `mapstructure:"auth_client_secret" json:"auth_client_secret" yaml:"auth_client_secret"`
	ListBenchVariablesQueryTemplate string       `mapstructure:"list_bench_variables_query_template" json:"list_bench_variables_query_template" yaml:"list_bench_variables_query_template"`
	APITokensFilename               string       `mapstructure:"api_tokens_filename" json:"api_tokens_filename" yaml:"api_tokens_filename"`
	VariablesCacheFilename          string       `mapstructure:"variables_cache_filename" json:"variables_cache_filename" yaml:"variables_cache_filename"`
	AutoInstallVariablesFilename    string       `mapstructure:"auto_install_variables_filename" json:"auto_install_variables_filename" yaml:"auto_install_variables_filename"`
	FeatureFlags                    FeatureFlags `mapstructure:"feature_flags" json:"feature_flags" yaml:"feature_flags"`
	MaxRequestsPerSecond            float64      `mapstructure:"max_requests_per_second" json:"max_requests_per_second" yaml:"max_requests_per_second"`

	source string
}

var defaults = map[string]interface{}{
	KeyOrganizationID:                  "",
	KeyBenchID:                         "",
	KeyEnv:                             "prod",
	KeyNucleusAPIEndpoint:              "",
	KeyAPIEndpoint:                     "https://os.deeporigin.io",
	KeyNucleusAPIRoute:                 "/nucleus-api/api/",
	KeyAuthDomain:                      "https://formicbio.us.auth0.com",
	KeyAuthDeviceCodeEndpoint:          "/oauth/device/code",
	KeyAuthTokenEndpoint:               "/oauth/token",
	KeyAuthAudience:                    "https://os.deeporigin.io/api",
	KeyAuthGrantType:                   "urn:ietf:params:oauth:grant-type:device_code",
	KeyAuthClientID:                    "",
	KeyAuthClientSecret:                "",
	KeyListBenchVariablesQueryTemplate: "",
	KeyAPITokensFilename:               "~/.deep-origin/api_tokens",
	KeyVariablesCacheFilename:          "~/.deep-origin/variables.json",
	KeyAutoInstallVariablesFilename:    "~/.deep-origin/auto_install_variables",
	KeyFeatureFlagsVariables:           false,
	KeyMaxRequestsPerSecond:            10.0,
}

// stringKeys must hold string values
var stringKeys = []string{
	KeyOrganizationID,
	KeyBenchID,
	KeyEnv,
	KeyNucleusAPIEndpoint,
	KeyAPIEndpoint,
	KeyNucleusAPIRoute,
	KeyAuthDomain,
	KeyAuthDeviceCodeEndpoint,
	KeyAuthTokenEndpoint,
	KeyAuthAudience,
	KeyAuthGrantType,
	KeyAuthClientID,
	KeyAuthClientSecret,
	KeyListBenchVariablesQueryTemplate,
	KeyAPITokensFilename,
	KeyVariablesCacheFilename,
	KeyAutoInstallVariablesFilename,
}

var filenameKeys = []string{
	KeyAPITokensFilename,
	KeyVariablesCacheFilename,
	KeyAutoInstallVariablesFilename,
}

const redactedValue = "********"

// Keys returns all known config keys, in a stable order
func Keys() []string {
	keys := make([]string, 0, len(stringKeys)+2)
	keys = append(keys, stringKeys...)
	return append(keys, KeyFeatureFlagsVariables, KeyMaxRequestsPerSecond)
}

// Source is the user file the config was read from, if any
func (c *Config) Source() string {
	return c.source
}

// Redacted is a copy of the config safe to display, with secrets masked
func (c *Config) Redacted() *Config {
	masked := *c
	if masked.AuthClientSecret != "" {
		masked.AuthClientSecret = redactedValue
	}
	return &masked
}

// NucleusURL is the base URL of the managed data API.
//
// An explicit nucleus_api_endpoint wins, otherwise it is resolved from
// api_endpoint and nucleus_api_route.
func (c *Config) NucleusURL() (string, error) {
	if c.NucleusAPIEndpoint != "" {
		return c.NucleusAPIEndpoint, nil
	}
	base, err := url.Parse(c.APIEndpoint)
	if err != nil {
		return "", ErrInvalid.Wrap(fmt.Errorf("%s: %w", KeyAPIEndpoint, err))
	}
	route, err := url.Parse(c.NucleusAPIRoute)
	if err != nil {
		return "", ErrInvalid.Wrap(fmt.Errorf("%s: %w", KeyNucleusAPIRoute, err))
	}
	return base.ResolveReference(route).String(), nil
}

// DeviceCodeURL is the endpoint starting the device authorization flow
func (c *Config) DeviceCodeURL() string {
	return joinURL(c.AuthDomain, c.AuthDeviceCodeEndpoint)
}

// TokenURL is the endpoint delivering access tokens
func (c *Config) TokenURL() string {
	return joinURL(c.AuthDomain, c.AuthTokenEndpoint)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Require checks that the given string keys have a non-empty value
func (c *Config) Require(keys ...string) error {
	values := c.stringValues()
	var missing []string
	for _, key := range keys {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return ErrMissing.Wrap(fmt.Errorf("set %s in %s or with environment variables %s",
			strings.Join(missing, ", "), DefaultUserFile(), envNames(missing)))
	}
	return nil
}

func envNames(keys []string) string {
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, EnvName(key))
	}
	return strings.Join(names, ", ")
}

// EnvName is the environment variable overriding some key
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", envKeySeparator))
}

func (c *Config) stringValues() map[string]string {
	return map[string]string{
		KeyOrganizationID:                  c.OrganizationID,
		KeyBenchID:                         c.BenchID,
		KeyEnv:                             c.Env,
		KeyNucleusAPIEndpoint:              c.NucleusAPIEndpoint,
		KeyAPIEndpoint:                     c.APIEndpoint,
		KeyNucleusAPIRoute:                 c.NucleusAPIRoute,
		KeyAuthDomain:                      c.AuthDomain,
		KeyAuthDeviceCodeEndpoint:          c.AuthDeviceCodeEndpoint,
		KeyAuthTokenEndpoint:               c.AuthTokenEndpoint,
		KeyAuthAudience:                    c.AuthAudience,
		KeyAuthGrantType:                   c.AuthGrantType,
		KeyAuthClientID:                    c.AuthClientID,
		KeyAuthClientSecret:                c.AuthClientSecret,
		KeyListBenchVariablesQueryTemplate: c.ListBenchVariablesQueryTemplate,
		KeyAPITokensFilename:               c.APITokensFilename,
		KeyVariablesCacheFilename:          c.VariablesCacheFilename,
		KeyAutoInstallVariablesFilename:    c.AutoInstallVariablesFilename,
	}
}

// DefaultUserFile is the location of the user config file in the home directory
func DefaultUserFile() string {
	return filepath.Join(homeDir(), Dir, FileName)
}

// UserFiles lists the candidate user config files, by order of preference
func UserFiles() []string {
	return []string{
		DefaultUserFile(),
		filepath.Join(Dir, FileName),
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "~"
	}
	return home
}

// ExpandUser replaces a leading "~" in path by the user's home directory
func ExpandUser(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~"+string(os.PathSeparator)):
		return filepath.Join(home, path[2:])
	default:
		return path
	}
}

// newViper builds a viper instance with defaults and environment bindings
func newViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()
	return v
}
