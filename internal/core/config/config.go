package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the local API listens.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Backend holds the remote ordering service connection details.
	Backend BackendConfig `mapstructure:",squash"`

	// Store holds the local state store configuration.
	Store StoreConfig `mapstructure:",squash"`

	// Checkout holds the checkout and payment tracking settings.
	Checkout CheckoutConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy.
	Proxy ProxyConfig `mapstructure:",squash"`

	// Tracing holds the OTLP exporter settings.
	Tracing TracingConfig `mapstructure:",squash"`
}

// BackendConfig describes the remote ordering API.
type BackendConfig struct {
	// URL is the base directory of the API; requests go to {URL}/index.php.
	URL string `mapstructure:"BACKEND_URL" required:"true"`
	// Timeout bounds every backend request.
	Timeout time.Duration `mapstructure:"BACKEND_TIMEOUT" default:"15s"`
}

// StoreConfig describes where cart, session and handoff values live.
type StoreConfig struct {
	// RedisURL selects the Redis store. Empty keeps state in process memory.
	RedisURL string `mapstructure:"REDIS_URL"`
}

// CheckoutConfig groups checkout collaborators.
type CheckoutConfig struct {
	// CEPLookupURL is the postal code lookup base URL.
	CEPLookupURL string `mapstructure:"CEP_LOOKUP_URL" default:"https://brasilapi.com.br/api/cep/v1"`
	// PollInterval is the payment status polling period.
	PollInterval time.Duration `mapstructure:"PAYMENT_POLL_INTERVAL" default:"5s"`
	// OpenLinksInBrowser opens payment links in a local browser.
	OpenLinksInBrowser bool `mapstructure:"BROWSER_OPEN_LINKS" default:"false"`
}

// ProxyConfig holds outbound proxy credentials.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// TracingConfig holds the OTLP/HTTP exporter endpoint.
type TracingConfig struct {
	Endpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags binds every tagged field to its env var and registers defaults.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
