package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayo6706/fx-converter/internal/api/middleware"
	"github.com/ayo6706/fx-converter/internal/config"
)

// ErrAdminDisabled is returned when no JWT secret is configured.
var ErrAdminDisabled = errors.New("admin routes are disabled: JWT_SECRET is not set")

// IssueAdminToken mints a bearer token accepted by the admin routes of a
// server started with the same configuration.
func IssueAdminToken(cfg *config.Config, subject string, ttl time.Duration) (string, error) {
	if !cfg.AdminEnabled() {
		return "", ErrAdminDisabled
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	return auth.IssueToken(subject, middleware.RoleAdmin, ttl)
}
