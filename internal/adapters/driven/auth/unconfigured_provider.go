package auth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure UnconfiguredTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*UnconfiguredTokenProvider)(nil)

// UnconfiguredTokenProvider stands in when no credentials are configured.
// Commands that never call the API keep working; a sync fails at the token
// step with the configuration error.
type UnconfiguredTokenProvider struct {
	err error
}

// NewUnconfiguredTokenProvider creates a provider that always fails with cause.
func NewUnconfiguredTokenProvider(cause error) *UnconfiguredTokenProvider {
	return &UnconfiguredTokenProvider{err: cause}
}

// GetToken returns the configuration error, wrapping domain.ErrAuthFailed.
func (p *UnconfiguredTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.err == nil {
		return "", fmt.Errorf("%w: no credentials configured", domain.ErrAuthFailed)
	}
	return "", fmt.Errorf("%w: %w", domain.ErrAuthFailed, p.err)
}

// AuthMethod returns AuthMethodNone.
func (p *UnconfiguredTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodNone
}
