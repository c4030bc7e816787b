package hcm

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/utils"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Environment variables
const (
	EnvBaseURL          = "HCM_BASE_URL"
	EnvPassword         = "HCM_PASSWORD"
	EnvUsername         = "HCM_USERNAME"
	EnvAPIVersion       = "HCM_API_VERSION"
	EnvFrameworkVersion = "REST_FRAMEWORK_VERSION"
	EnvRequestTimeout   = "HCM_REQUEST_TIMEOUT"
)

// Defaults
const (
	DefaultUsername         = "WBC_HR_AGENT"
	DefaultAPIVersion       = "11.13.18.05"
	DefaultFrameworkVersion = "9"
	DefaultRequestTimeout   = 30 * time.Second
)

// Config for the HCM REST API.
// The values are immutable once returned by Load.
type Config struct {
	// BaseURL of the HCM instance, e.g. https://instance.oraclecloud.com
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required"`
	// Username for Basic authentication
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	// Password for Basic authentication
	Password string `json:"password,omitempty" yaml:"password,omitempty" validate:"required"`
	// APIVersion used in the resource path
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	// FrameworkVersion is the value of REST-Framework-Version header
	FrameworkVersion string `json:"framework_version,omitempty" yaml:"framework_version,omitempty"`
	// RequestTimeout is the default timeout of a remote call, e.g. 30s
	RequestTimeout string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`

	timeout time.Duration
}

// envByField maps the struct fields validated as required to their variables
var envByField = map[string]string{
	"BaseURL":  EnvBaseURL,
	"Password": EnvPassword,
}

// Load returns Config resolved from the environment,
// the optional config file and the defaults, in this order of precedence.
// If a required value is absent, KindMissingConfig error is returned.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		err := configloader.UnmarshalAndExpand(file, cfg)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to load config %q", file)
		}
	}
	return cfg.resolve(os.LookupEnv)
}

// FromEnv returns Config resolved from the environment and the defaults.
func FromEnv() (*Config, error) {
	return Load("")
}

func (c *Config) resolve(lookup func(string) (string, bool)) (*Config, error) {
	res := &Config{
		BaseURL:          value(lookup, EnvBaseURL, c.BaseURL, ""),
		Username:         value(lookup, EnvUsername, c.Username, DefaultUsername),
		Password:         value(lookup, EnvPassword, c.Password, ""),
		APIVersion:       value(lookup, EnvAPIVersion, c.APIVersion, DefaultAPIVersion),
		FrameworkVersion: value(lookup, EnvFrameworkVersion, c.FrameworkVersion, DefaultFrameworkVersion),
		RequestTimeout:   value(lookup, EnvRequestTimeout, c.RequestTimeout, DefaultRequestTimeout.String()),
	}
	res.BaseURL = strings.TrimRight(res.BaseURL, "/")

	if err := res.Validate(); err != nil {
		return nil, err
	}
	res.timeout, _ = parseTimeout(res.RequestTimeout)
	return res, nil
}

// noEnv is the lookup used to apply the defaults to a configured value only
func noEnv(string) (string, bool) {
	return "", false
}

// value returns the first non-empty of the environment variable,
// the configured value and the default
func value(lookup func(string) (string, bool), env, configured, def string) string {
	if v, ok := lookup(env); ok {
		if v = utils.TrimQuotes(v); v != "" {
			return v
		}
	}
	if v := utils.TrimQuotes(configured); v != "" {
		return v
	}
	return def
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate returns KindMissingConfig error if a required value is absent,
// or an error if the request timeout is invalid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			if env, ok := envByField[verrs[0].StructField()]; ok {
				return MissingConfig(env)
			}
		}
		return errors.WithMessage(err, "invalid configuration")
	}

	_, err := parseTimeout(c.RequestTimeout)
	return err
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return DefaultRequestTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.WithMessagef(err, "invalid %s", EnvRequestTimeout)
	}
	if d <= 0 {
		return 0, errors.Errorf("invalid %s: must be positive", EnvRequestTimeout)
	}
	return d, nil
}

// Timeout returns the default timeout of a remote call.
func (c *Config) Timeout() time.Duration {
	if c.timeout == 0 {
		return DefaultRequestTimeout
	}
	return c.timeout
}

// String returns the configuration with the password redacted.
func (c *Config) String() string {
	pwd := ""
	if c.Password != "" {
		pwd = "[REDACTED]"
	}
	return fmt.Sprintf("base_url=%s username=%s password=%s api_version=%s framework_version=%s request_timeout=%s",
		c.BaseURL, c.Username, pwd, c.APIVersion, c.FrameworkVersion, c.Timeout())
}
