// Command tenant-token mints a bearer token for token-mode tenant resolution.
// It reads AUTH_JWT_* from the environment (or .env) like the API does.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"telephony-log/internal/auth"
	"telephony-log/internal/config"
	"telephony-log/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	tenantDomain := flag.String("tenant", "", "tenant domain to bind the token to")
	subject := flag.String("sub", "tenant-token", "token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.Env)

	m, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}
	tok, err := m.Issue(time.Now(), *subject, *tenantDomain, *ttl)
	if err != nil {
		log.Error("token issue failed", "err", err, "tenant", *tenantDomain)
		os.Exit(1)
	}
	fmt.Println(tok)
}
