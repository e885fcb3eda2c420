package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

var (
	ErrMissingPublicKey     = errors.New("JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE must be set")
	ErrUnsupportedAlgorithm = errors.New("JWT_ALGORITHM must be an asymmetric signing algorithm")
)

var asymmetricAlgorithms = map[string]struct{}{
	"RS256": {}, "RS384": {}, "RS512": {},
	"PS256": {}, "PS384": {}, "PS512": {},
	"ES256": {}, "ES384": {}, "ES512": {},
	"EdDSA": {},
}

type JWTConfig struct {
	PublicKey     string        `env:"JWT_PUBLIC_KEY"`
	PublicKeyFile string        `env:"JWT_PUBLIC_KEY_FILE"`
	Algorithm     string        `env:"JWT_ALGORITHM" envDefault:"RS256"`
	Leeway        time.Duration `env:"JWT_LEEWAY" envDefault:"0s"`
	Issuer        string        `env:"JWT_ISSUER"`
	Audience      string        `env:"JWT_AUDIENCE"`
}

type NotesConfig struct {
	HTTPPort         string        `env:"NOTES_HTTP_PORT" envDefault:"8080"`
	DatabaseURL      string        `env:"DATABASE_URL,required"`
	RedisURL         string        `env:"REDIS_URL"`
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"0s"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	RateLimitRPS     float64       `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst   int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
	MaxRequestSize   int64         `env:"MAX_REQUEST_SIZE" envDefault:"1048576"`
	LogDir           string        `env:"LOG_DIR"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	JWT              JWTConfig
}

type AdminConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
	JWT         JWTConfig
}

func LoadNotesConfig() (NotesConfig, error) {
	var cfg NotesConfig
	if err := env.Parse(&cfg); err != nil {
		return NotesConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.JWT.Validate(); err != nil {
		return NotesConfig{}, err
	}

	if cfg.IdentityCacheTTL < 0 {
		cfg.IdentityCacheTTL = 0
	}

	return cfg, nil
}

func LoadAdminConfig() (AdminConfig, error) {
	var cfg AdminConfig
	if err := env.Parse(&cfg); err != nil {
		return AdminConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c JWTConfig) Validate() error {
	if _, ok := asymmetricAlgorithms[c.Algorithm]; !ok {
		return fmt.Errorf("%w: got %q", ErrUnsupportedAlgorithm, c.Algorithm)
	}
	if strings.TrimSpace(c.PublicKey) == "" && strings.TrimSpace(c.PublicKeyFile) == "" {
		return ErrMissingPublicKey
	}
	return nil
}

// PublicKeyPEM returns the configured key material. Inline keys may carry
// literal "\n" sequences so they fit in a single environment variable.
func (c JWTConfig) PublicKeyPEM() ([]byte, error) {
	if strings.TrimSpace(c.PublicKey) != "" {
		return []byte(strings.ReplaceAll(c.PublicKey, `\n`, "\n")), nil
	}
	if c.PublicKeyFile == "" {
		return nil, ErrMissingPublicKey
	}
	data, err := os.ReadFile(c.PublicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	return data, nil
}
