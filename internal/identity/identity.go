// Package identity verifies bearer tokens issued by the identity provider.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what a verified token tells us about the caller.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
