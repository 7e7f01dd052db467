package domain

// AuthMethod describes how an access token is presented to the service.
type AuthMethod string

const (
	// AuthMethodBearer sends an Entra ID access token as a bearer token.
	AuthMethodBearer AuthMethod = "bearer"

	// AuthMethodPAT sends a personal access token with basic authentication.
	AuthMethodPAT AuthMethod = "pat"

	// AuthMethodNone sends no credentials.
	AuthMethodNone AuthMethod = "none"
)

// ParseAuthMethod converts a string to an AuthMethod. Empty means bearer.
func ParseAuthMethod(s string) (AuthMethod, bool) {
	switch AuthMethod(s) {
	case "", AuthMethodBearer:
		return AuthMethodBearer, true
	case AuthMethodPAT, AuthMethodNone:
		return AuthMethod(s), true
	default:
		return "", false
	}
}
