package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"golang.org/x/crypto/bcrypt"
)

const (
	MailTransportSES      = "ses"
	MailTransportRabbitMQ = "rabbitmq"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Port       uint16 `env:"PORT" envDefault:"9090"`
	Secret     string `env:"SECRET,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	RabbitmqURL            string  `env:"RABBITMQ_URL"`
	RabbitmqMailExchange   string  `env:"RABBITMQ_MAIL_EXCHANGE" envDefault:"mail"`
	RabbitmqMailRoutingKey string  `env:"RABBITMQ_MAIL_ROUTING_KEY" envDefault:"mail.send"`
	RabbitmqMailQueue      string  `env:"RABBITMQ_MAIL_QUEUE" envDefault:"mail"`
	MailTransport          string  `env:"MAIL_TRANSPORT" envDefault:"ses"`
	PasswordResetBaseURL   url.URL `env:"PASSWORD_RESET_BASE_URL,required"`

	AwsRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey   string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey   string `env:"AWS_SECRET_KEY"`
	AwsEmailSender string `env:"AWS_EMAIL_SENDER"`

	BcryptHasherCost           int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDuration time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"1h"`
	AuthTokenValidDays         int           `env:"AUTH_TOKEN_VALID_DAYS" envDefault:"60"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MailTransport {
	case MailTransportSES:
		if c.AwsEmailSender == "" {
			return fmt.Errorf("AWS_EMAIL_SENDER must be set when MAIL_TRANSPORT is %q", MailTransportSES)
		}
	case MailTransportRabbitMQ:
		if c.RabbitmqURL == "" {
			return fmt.Errorf("RABBITMQ_URL must be set when MAIL_TRANSPORT is %q", MailTransportRabbitMQ)
		}
	default:
		return fmt.Errorf("invalid MAIL_TRANSPORT value: %q", c.MailTransport)
	}
	if c.BcryptHasherCost < bcrypt.MinCost || c.BcryptHasherCost > bcrypt.MaxCost {
		return fmt.Errorf(
			"invalid BCRYPT_HASHER_COST value: %d, must be within [%d, %d]",
			c.BcryptHasherCost,
			bcrypt.MinCost,
			bcrypt.MaxCost,
		)
	}
	if c.AuthTokenValidDays <= 0 {
		return fmt.Errorf("invalid AUTH_TOKEN_VALID_DAYS value: %d", c.AuthTokenValidDays)
	}
	if c.PasswordResetValidDuration <= 0 {
		return fmt.Errorf("invalid PASSWORD_RESET_VALID_DURATION value: %s", c.PasswordResetValidDuration)
	}
	return nil
}
