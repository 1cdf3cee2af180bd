package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultTenantFallback is the development tenant used when no tenant
// identifier is supplied. Only APP_ENV=local defaults to it.
const DefaultTenantFallback = "test-shop.myshopify.com"

// Config holds all configuration required by the API process.
// All values come from env (or a .env file loaded by cmd/api).
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Tenant   TenantConfig
	Throttle ThrottleConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type DBConfig struct {
	// URL is a pgx-compatible DSN. Avoid logging it; it may contain secrets.
	URL string
	// Driver selects the conversation store: postgres or memory.
	Driver      string
	AutoMigrate bool
}

type RedisConfig struct {
	// Addr is host:port. Empty disables the per-tenant admission cap.
	Addr string
}

// AuthConfig enables token-mode tenant resolution when JWTSecret is set.
type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
}

type TenantConfig struct {
	Header   string
	Fallback string
}

type ThrottleConfig struct {
	MaxInFlight int
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = envOr("APP_ENV", "local")
	{
		n, err := intOr("PORT", 2001)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.DB.URL = envOr("DATABASE_URL", "postgres://postgres@localhost:5432/rippledesk?sslmode=disable")
	c.DB.Driver = envOr("STORE_DRIVER", "postgres")
	{
		b, err := boolOr("DB_AUTO_MIGRATE", c.App.Env != "production")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.DB.AutoMigrate = b
	}

	c.Redis.Addr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))

	c.Auth.JWTSecret = os.Getenv("AUTH_JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("AUTH_JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	c.Tenant.Header = envOr("TENANT_HEADER", "X-Shopify-Shop-Domain")
	c.Tenant.Fallback = strings.TrimSpace(os.Getenv("TENANT_FALLBACK"))
	if c.Tenant.Fallback == "" && c.App.Env == "local" {
		c.Tenant.Fallback = DefaultTenantFallback
	}

	{
		n, err := intOr("TENANT_MAX_INFLIGHT", 50)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Throttle.MaxInFlight = n
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid port, got %d", c.App.Port))
	}

	switch c.DB.Driver {
	case "postgres":
		if strings.TrimSpace(c.DB.URL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for STORE_DRIVER=postgres"))
		}
	case "memory":
		if c.IsProduction() {
			errs = append(errs, errors.New("STORE_DRIVER=memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of postgres, memory, got %q", c.DB.Driver))
	}

	if strings.TrimSpace(c.Tenant.Header) == "" {
		errs = append(errs, errors.New("TENANT_HEADER must not be empty"))
	}
	if c.IsProduction() && c.Tenant.Fallback != "" {
		errs = append(errs, errors.New("TENANT_FALLBACK must not be set in production"))
	}

	if c.Auth.JWTSecret != "" && c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("AUTH_JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("AUTH_JWT_AUDIENCE is required in production"))
		}
	}

	if c.Throttle.MaxInFlight <= 0 {
		errs = append(errs, fmt.Errorf("TENANT_MAX_INFLIGHT must be positive, got %d", c.Throttle.MaxInFlight))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// TokenMode reports whether tenants are taken from verified bearer tokens
// instead of the tenant header.
func (c Config) TokenMode() bool {
	return c.Auth.JWTSecret != ""
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intOr(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
