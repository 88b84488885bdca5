// Package config implements C1: a typed environment-variable configuration
// loader with validation. Grounded on the teacher's bootstrap/config.go
// `env:"NAME" envDefault:"..."` struct-tag style; the teacher binds these
// tags via its private lib-commons.SetConfigFromEnvVars, which has no source
// in the retrieval pack to ground an implementation on, so binding is
// hand-rolled here with the same tag shape plus go-playground/validator for
// the post-bind checks (min secret length, required DSNs) that the teacher
// performs ad hoc in bootstrap.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the top-level process configuration for the API and worker
// binaries (spec.md §6 "Environment").
type Config struct {
	EnvName  string `env:"ENV_NAME" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":8080"`

	DatabaseURL     string `env:"DATABASE_URL" validate:"required"`
	DatabasePoolMax int    `env:"DATABASE_POOL_MAX" envDefault:"20"`

	RedisURL string `env:"REDIS_URL" validate:"required"`

	MongoURL string `env:"MONGO_URL" envDefault:""`
	MongoDB  string `env:"MONGO_DATABASE" envDefault:"coziyoo_audit"`

	RabbitMQURL string `env:"RABBITMQ_URL" envDefault:""`

	AppJWTSecret   string `env:"APP_JWT_SECRET" validate:"required,min=32"`
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET" validate:"required,min=32"`

	AccessTokenTTLMinutes  int `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"15"`
	RefreshTokenTTLDays    int `env:"REFRESH_TOKEN_TTL_DAYS" envDefault:"30"`

	PaymentWebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET" validate:"required,min=16"`
	PaymentReturnBaseURL string `env:"PAYMENT_RETURN_BASE_URL" envDefault:"https://pay.coziyoo.local/return"`

	AgentRuntimeSharedSecret string `env:"AGENT_RUNTIME_SHARED_SECRET" envDefault:""`
	AgentRuntimeBaseURL      string `env:"AGENT_RUNTIME_BASE_URL" envDefault:""`

	LiveKitAPIKey    string `env:"LIVEKIT_API_KEY" envDefault:""`
	LiveKitAPISecret string `env:"LIVEKIT_API_SECRET" envDefault:""`

	STTEndpoint string `env:"STT_ENDPOINT" envDefault:""`
	TTSEndpoint string `env:"TTS_ENDPOINT" envDefault:""`
	LLMEndpoint string `env:"LLM_ENDPOINT" envDefault:""`

	RetentionWindowDays int `env:"RETENTION_WINDOW_DAYS" envDefault:"730"`

	OrderExpiryMinutes    int `env:"ORDER_EXPIRY_MINUTES" envDefault:"30"`
	OrderAutoCompleteHours int `env:"ORDER_AUTO_COMPLETE_HOURS" envDefault:"24"`

	OutboxMaxAttempts  int `env:"OUTBOX_MAX_ATTEMPTS" envDefault:"8"`
	OutboxPollInterval int `env:"OUTBOX_POLL_INTERVAL_SECONDS" envDefault:"2"`
}

// Load reads a local .env file if present (development convenience, the
// same pattern every example repo in the pack uses via joho/godotenv), binds
// environment variables onto a Config by struct tag, and validates it.
// Boot fails fast if required secrets are missing, per spec.md §6.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := bindEnv(cfg); err != nil {
		return nil, fmt.Errorf("bind config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnv walks the struct fields, reading `env` tags and falling back to
// `envDefault` when the variable is unset.
func bindEnv(cfg any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("env")
		if tag == "" {
			continue
		}

		raw, ok := os.LookupEnv(tag)
		if !ok {
			raw = field.Tag.Get("envDefault")
		}
		if raw == "" && !ok {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int64:
			if strings.TrimSpace(raw) == "" {
				continue
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
			fv.SetInt(n)
		case reflect.Bool:
			if strings.TrimSpace(raw) == "" {
				continue
			}
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
			fv.SetBool(b)
		}
	}

	return nil
}
