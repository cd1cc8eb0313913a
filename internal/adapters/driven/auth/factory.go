package auth

import (
	"fmt"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// NewTokenProvider creates the TokenProvider matching the configured credentials.
// A pre-issued access token takes precedence over a client id and secret.
func NewTokenProvider(creds domain.Credentials, api domain.APISettings) (driven.TokenProvider, error) {
	switch {
	case creds.AccessToken != "":
		return NewStaticTokenProvider(creds.AccessToken), nil
	case creds.ClientID != "" && creds.ClientSecret != "":
		return NewClientCredentialsProvider(creds.ClientID, creds.ClientSecret, api.TokenURL, api.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: no credentials configured (set HS_APP_ID and HS_APP_SECRET, or HS_ACCESS_TOKEN)",
			domain.ErrAuthFailed)
	}
}
