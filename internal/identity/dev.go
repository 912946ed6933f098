package identity

import (
	"context"

	"toklen/internal/pkg/jwt"
)

// DevVerifier accepts locally signed HS256 tokens. Never wired in production.
type DevVerifier struct {
	jwt *jwt.Service
}

func NewDevVerifier(svc *jwt.Service) *DevVerifier {
	return &DevVerifier{jwt: svc}
}

func (v *DevVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}
