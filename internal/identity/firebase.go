package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier builds an auth client for projectID. credentialsFile
// may be empty, in which case application default credentials are used.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("firebase token rejected")
		return nil, ErrInvalidToken
	}
	return fromClaims(decoded.UID, decoded.Claims), nil
}

func fromClaims(uid string, claims map[string]any) *Identity {
	id := &Identity{UID: uid}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := claims["email_verified"].(bool); ok {
		id.EmailVerified = v
	}
	if v, ok := claims["name"].(string); ok {
		id.Name = v
	}
	return id
}
