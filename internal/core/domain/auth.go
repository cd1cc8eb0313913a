package domain

// AuthMethod identifies how a bearer token is obtained.
type AuthMethod string

// Supported auth methods.
const (
	// AuthMethodClientCredentials exchanges a client id and secret for a token.
	AuthMethodClientCredentials AuthMethod = "client_credentials"

	// AuthMethodStaticToken uses a pre-issued access token as-is.
	AuthMethodStaticToken AuthMethod = "static_token"

	// AuthMethodNone means no credentials are configured.
	AuthMethodNone AuthMethod = "none"
)

// String returns the string representation.
func (m AuthMethod) String() string {
	return string(m)
}
