package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rgdevment/service-report/internal/mask"
)

var defaults = map[string]interface{}{
	"app.name":               "service-report",
	"app.environment":        "development",
	"http.port":              ":8080",
	"http.api_key":           "",
	"http.session_ttl":       30 * time.Minute,
	"relay.driver":           DriverWebhook,
	"relay.webhook_url":      "",
	"relay.business_phone":   "",
	"relay.timeout":          10 * time.Second,
	"aws.region":             "",
	"locale.language":        "pt-BR",
	"locale.timezone":        "America/Sao_Paulo",
	"locale.currency_symbol": "R$",
	"form.business_name":     "Clean Pool",
	"form.auto_reset":        3 * time.Second,
	"logging.level":          "info",
	"logging.format":         "json",
}

// Load reads .env, then configs/config.yaml (optional), then environment
// overrides such as RELAY_WEBHOOK_URL, and validates the result.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	envFile := loadEnvFile()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return finish(v, envFile)
}

// LoadFromFile is Load with an explicit YAML file.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	envFile := loadEnvFile()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, envFile)
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper, envFile string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.EnvFile = envFile

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() string {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			abs, _ := filepath.Abs(path)
			return abs
		}
	}
	return ""
}

// Validate checks presence and shape of every setting the form depends on.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return translate(fieldErrs)
		}
		return err
	}

	if cfg.Relay.Driver == DriverWebhook && cfg.Relay.WebhookURL == "" {
		return errors.New("relay.webhook_url is required for the webhook driver")
	}
	if cfg.Relay.Driver == DriverSNS && cfg.AWS.Region == "" {
		return errors.New("aws.region is required for the sns driver")
	}
	if !mask.IsValidNumber(cfg.Relay.BusinessPhone) {
		return fmt.Errorf("relay.business_phone %q is not a valid phone number", cfg.Relay.BusinessPhone)
	}

	return nil
}

func translate(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
