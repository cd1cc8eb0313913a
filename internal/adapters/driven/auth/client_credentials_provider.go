package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure ClientCredentialsProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ClientCredentialsProvider)(nil)

// ClientCredentialsProvider exchanges a client id and secret for a bearer
// token with the OAuth2 client-credentials grant. The token is cached until
// shortly before it expires.
type ClientCredentialsProvider struct {
	config     clientcredentials.Config
	httpClient *http.Client

	mu            sync.RWMutex
	cachedToken   string
	cacheExpiry   time.Time
	refreshBuffer time.Duration
	now           func() time.Time
}

// NewClientCredentialsProvider creates a token provider for the client-credentials grant.
// The credentials are passed in explicitly; nothing is read from the environment.
func NewClientCredentialsProvider(clientID, clientSecret, tokenURL string, timeout time.Duration) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient:    &http.Client{Timeout: timeout},
		refreshBuffer: 5 * time.Minute,
		now:           time.Now,
	}
}

// GetToken returns a valid access token, exchanging credentials if necessary.
// Any failure wraps domain.ErrAuthFailed.
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock
	p.mu.RLock()
	if p.cachedToken != "" && p.now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	// Slow path: need exchange, acquire write lock
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if p.cachedToken != "" && p.now().Before(p.cacheExpiry) {
		return p.cachedToken, nil
	}

	if p.config.ClientID == "" || p.config.ClientSecret == "" {
		return "", fmt.Errorf("%w: client id and secret are required", domain.ErrAuthFailed)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %w", domain.ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", domain.ErrAuthFailed)
	}

	p.cachedToken = token.AccessToken
	if !token.Expiry.IsZero() {
		p.cacheExpiry = token.Expiry.Add(-p.refreshBuffer)
	} else {
		p.cacheExpiry = p.now().Add(1 * time.Hour)
	}

	return p.cachedToken, nil
}

// AuthMethod returns AuthMethodClientCredentials.
func (p *ClientCredentialsProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodClientCredentials
}
