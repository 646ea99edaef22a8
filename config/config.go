package config

import (
	"github.com/spf13/viper"
)

// Store is a read-only view over the host application's settings.
// *viper.Viper satisfies it.
type Store interface {
	Get(key string) any
	IsSet(key string) bool
}

// Setter is a Store that can also receive default values.
type Setter interface {
	Store
	SetDefault(key string, value any)
}

type Config struct {
	Environment         string `mapstructure:"ENVIRONMENT"`
	HTTPServer          string `mapstructure:"HTTP_SERVER"`
	EmailSenderName     string `mapstructure:"EMAIL_SENDER_NAME"`
	EmailSenderAddress  string `mapstructure:"EMAIL_SENDER_ADDRESS"`
	EmailSenderPassword string `mapstructure:"EMAIL_SENDER_PASSWORD"`
	SMTPAuthAddress     string `mapstructure:"SMTP_AUTH_ADDRESS"`
	SMTPServerAddress   string `mapstructure:"SMTP_SERVER_ADDRESS"`

	settings *viper.Viper
}

// Settings returns the full settings namespace, including RQ_* keys.
func (c *Config) Settings() *viper.Viper {
	return c.settings
}

// LoadConfig reads a json config file named name from path. Environment
// variables override file values.
func LoadConfig(path, name string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetConfigType("json")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return FromViper(v)
}

// FromViper decodes the application fields of v and keeps v as the
// settings store.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("HTTP_SERVER", ":8080")
	v.SetDefault("SMTP_AUTH_ADDRESS", "smtp.gmail.com")
	v.SetDefault("SMTP_SERVER_ADDRESS", "smtp.gmail.com:587")

	config := &Config{settings: v}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	return config, nil
}
