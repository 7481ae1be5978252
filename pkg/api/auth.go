package api

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// AdWordsScope is the OAuth scope required by the Google Ads API.
const AdWordsScope = "https://www.googleapis.com/auth/adwords"

// Credentials selects how access tokens are minted: an installed-app refresh
// token, or a service account key with optional domain-wide impersonation.
type Credentials struct {
	ClientID          string
	ClientSecret      string
	RefreshToken      string
	JSONKeyFilePath   string
	ImpersonatedEmail string
}

// NewTokenSource returns a caching token source for the given credentials.
// The service account key takes precedence when both are present.
func NewTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	switch {
	case creds.JSONKeyFilePath != "":
		data, err := os.ReadFile(creds.JSONKeyFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account key: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(data, AdWordsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account key: %w", err)
		}
		jwtConfig.Subject = creds.ImpersonatedEmail
		return jwtConfig.TokenSource(ctx), nil

	case creds.RefreshToken != "":
		if creds.ClientID == "" || creds.ClientSecret == "" {
			return nil, fmt.Errorf("%w: refresh token needs client_id and client_secret", ErrNoCredentials)
		}
		oauthConfig := &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{AdWordsScope},
		}
		return oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}), nil

	default:
		return nil, ErrNoCredentials
	}
}
