package driven

import (
	"context"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// TokenProvider provides the bearer token for authenticated API calls.
// Implementations cache the token for the lifetime of a run.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Any failure wraps domain.ErrAuthFailed.
	GetToken(ctx context.Context) (string, error)

	// AuthMethod returns how the token is obtained.
	AuthMethod() domain.AuthMethod
}
