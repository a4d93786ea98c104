// Package config loads the gateway endpoint configuration from the
// environment. The mapping layer itself is transport-free; callers feed these
// URLs to the excluded HTTP collaborator and to ThreeDFormData.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary Primary          `koanf:"primary"`
	EstPos  GatewayEndpoints `koanf:"estpos"`
	PayFlex GatewayEndpoints `koanf:"payflex"`
	PosNet  GatewayEndpoints `koanf:"posnet"`
	Logger  LoggerConfig     `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// GatewayEndpoints holds the per-bank URLs of one gateway family.
type GatewayEndpoints struct {
	PaymentAPIURL string `koanf:"payment_api_url" validate:"required,url"`
	Gateway3DURL  string `koanf:"gateway_3d_url" validate:"required,url"`
	QueryAPIURL   string `koanf:"query_api_url" validate:"omitempty,url"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// NewLogger builds the process logger at the configured level. Unknown level
// strings fall back to info.
func (c LoggerConfig) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("POSBRIDGE_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "POSBRIDGE_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
