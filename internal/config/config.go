package config

import (
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE"`
	Secret     string `env:"SECRET,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"10"`

	SessionTokenValidDuration  time.Duration `env:"SESSION_TOKEN_VALID_DURATION" envDefault:"720h"`
	PasswordResetValidDuration time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"1h"`
	PasswordResetSweepPeriod   time.Duration `env:"PASSWORD_RESET_SWEEP_PERIOD" envDefault:"1h"`

	StreakTimezone string `env:"STREAK_TIMEZONE" envDefault:"UTC"`

	AwsRegion                     string  `env:"AWS_REGION" envDefault:"eu-west-1"`
	AwsAccessKey                  string  `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string  `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string  `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string  `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE"`
	PasswordResetBaseUrl          url.URL `env:"PASSWORD_RESET_BASE_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
