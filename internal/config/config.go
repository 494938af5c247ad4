package config

import "time"

// Config is everything the form service needs at startup. Endpoint and
// business number come from the environment, never from code.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Relay   RelayConfig   `mapstructure:"relay"`
	AWS     AWSConfig     `mapstructure:"aws"`
	Locale  LocaleConfig  `mapstructure:"locale"`
	Form    FormConfig    `mapstructure:"form"`
	Logging LoggingConfig `mapstructure:"logging"`

	// EnvFile is the .env that was loaded, empty when none was found.
	EnvFile string `mapstructure:"-"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port" validate:"required"`

	// APIKey guards /v1 when set.
	APIKey string `mapstructure:"api_key"`

	SessionTTL time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
}

const (
	DriverWebhook = "webhook"
	DriverSNS     = "sns"
)

// RelayConfig describes where notifications go.
type RelayConfig struct {
	Driver        string        `mapstructure:"driver" validate:"oneof=webhook sns"`
	WebhookURL    string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	BusinessPhone string        `mapstructure:"business_phone" validate:"required,e164"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type LocaleConfig struct {
	Language       string `mapstructure:"language" validate:"required"`
	Timezone       string `mapstructure:"timezone" validate:"required"`
	CurrencySymbol string `mapstructure:"currency_symbol" validate:"required"`
}

type FormConfig struct {
	BusinessName string        `mapstructure:"business_name" validate:"required"`
	AutoReset    time.Duration `mapstructure:"auto_reset" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format"`
}
