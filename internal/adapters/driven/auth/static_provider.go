package auth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider serves a pre-issued access token as-is.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a token provider for a pre-issued token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// GetToken returns the configured token.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("%w: access token is empty", domain.ErrAuthFailed)
	}
	return p.token, nil
}

// AuthMethod returns AuthMethodStaticToken.
func (p *StaticTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodStaticToken
}
