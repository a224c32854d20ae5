package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/platform/config"
	"github.com/SscSPs/resource_bank/internal/utils"
)

// authService authenticates the single configured administrator.
type authService struct {
	BaseService
	cfg *config.Config
}

// NewAuthService creates an AuthSvc backed by ADMIN_LOGIN / ADMIN_PASSWORD_HASH.
func NewAuthService(cfg *config.Config, opts ...Option) portssvc.AuthSvc {
	return &authService{BaseService: newBaseService(opts), cfg: cfg}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, login, password string) (string, time.Time, error) {
	if s.cfg.AdminPasswordHash == "" {
		s.LogWarn(ctx, "Admin login attempted but no password hash is configured")
		return "", time.Time{}, apperrors.ErrUnauthorized
	}
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.cfg.AdminLogin)) == 1
	passwordOK := utils.CheckPasswordHash(password, s.cfg.AdminPasswordHash)
	if !loginOK || !passwordOK {
		s.LogWarn(ctx, "Admin login rejected", slog.String("login", login))
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := utils.GenerateJWT(login, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	s.LogInfo(ctx, "Admin logged in", slog.String("login", login))
	return token, expiresAt, nil
}
