package services

import (
	"context"
	"time"
)

// AuthSvc authenticates administrators.
type AuthSvc interface {
	// Login checks the admin credentials and returns a signed access token.
	Login(ctx context.Context, login, password string) (token string, expiresAt time.Time, err error)
}
