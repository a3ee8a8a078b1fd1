package service

import (
	"context"
	"errors"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

// GoogleVerifier checks Google ID tokens against the configured client id.
type GoogleVerifier struct {
	ClientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{ClientID: clientID}
}

// VerifyEmail returns the lowercased email claim of a valid token.
func (g *GoogleVerifier) VerifyEmail(_ context.Context, idToken string) (string, error) {
	if g.ClientID == "" {
		return "", errors.New("GOOGLE_CLIENT_ID is not configured")
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return "", err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", err
	}
	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	if email == "" {
		return "", errors.New("id token has no email")
	}
	return email, nil
}
