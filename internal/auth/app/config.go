package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr   string `env:"AUTH_ADDR" envDefault:":8080"`
	Env    string `env:"AUTH_ENV" envDefault:"dev"` // dev, staging, prod
	DBPath string `env:"AUTH_DB_PATH" envDefault:"auth.db"`

	Issuer   string   `env:"AUTH_ISSUER" envDefault:"teamauth"`
	Audience []string `env:"AUTH_AUDIENCE" envSeparator:","`

	// KeyFile holds the PKCS8 signing key. Empty means an ephemeral key and
	// every token dies with the process.
	KeyFile         string        `env:"AUTH_KEY_FILE"`
	Algorithm       string        `env:"AUTH_ALGORITHM" envDefault:"EdDSA"` // EdDSA, ES256, RS256
	TokenLeeway     time.Duration `env:"AUTH_TOKEN_LEEWAY" envDefault:"30s"`
	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"720h"`
	VerificationTTL time.Duration `env:"AUTH_VERIFICATION_TTL" envDefault:"24h"`
	ResetTTL        time.Duration `env:"AUTH_RESET_TTL" envDefault:"1h"`
	InviteTTL       time.Duration `env:"AUTH_INVITE_TTL" envDefault:"168h"`

	PepperFile          string `env:"AUTH_PEPPER_FILE" envDefault:"pepper"`
	ConcealUnknownEmail bool   `env:"AUTH_CONCEAL_UNKNOWN_EMAIL"`

	FrontendURL    string `env:"AUTH_FRONTEND_URL" envDefault:"http://localhost:3000"`
	AppName        string `env:"AUTH_APP_NAME" envDefault:"Teamauth"`
	CompanyName    string `env:"AUTH_COMPANY_NAME"`
	CompanyAddress string `env:"AUTH_COMPANY_ADDRESS"`
	LogoURL        string `env:"AUTH_LOGO_URL"`
	SupportEmail   string `env:"AUTH_SUPPORT_EMAIL"`

	// SMTPHost empty logs emails instead of sending them.
	SMTPHost     string `env:"AUTH_SMTP_HOST"`
	SMTPPort     int    `env:"AUTH_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"AUTH_SMTP_USERNAME"`
	SMTPPassword string `env:"AUTH_SMTP_PASSWORD"`
	SMTPFrom     string `env:"AUTH_SMTP_FROM" envDefault:"no-reply@localhost"`

	// GoogleClientID empty disables google sign-in.
	GoogleClientID string `env:"AUTH_GOOGLE_CLIENT_ID"`

	CookieSecure bool   `env:"AUTH_COOKIE_SECURE" envDefault:"true"`
	CookieDomain string `env:"AUTH_COOKIE_DOMAIN"`

	RateLimit            bool          `env:"AUTH_RATE_LIMIT" envDefault:"true"`
	HousekeepingInterval time.Duration `env:"AUTH_HOUSEKEEPING_INTERVAL" envDefault:"1h"`
	ShutdownGracePeriod  time.Duration `env:"AUTH_SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	LogLevel  string `env:"AUTH_LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat string `env:"AUTH_LOG_FORMAT" envDefault:"json"` // json, text
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Issuer == "" {
		return Config{}, fmt.Errorf("parse env: AUTH_ISSUER must not be empty")
	}
	return cfg, nil
}
