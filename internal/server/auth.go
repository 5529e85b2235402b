package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenExpiry = 24 * time.Hour

// Claims is the JWT claims structure for API tokens.
type Claims struct {
	NodeID string `json:"node_id"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates HS256 bearer tokens for the API.
type Authenticator struct {
	secret []byte
	nodeID string
}

// NewAuthenticator returns nil when secret is empty, which disables auth.
func NewAuthenticator(secret, nodeID string) *Authenticator {
	if secret == "" {
		return nil
	}
	return &Authenticator{secret: []byte(secret), nodeID: nodeID}
}

// MatchesSecret compares a presented secret in constant time.
func (a *Authenticator) MatchesSecret(presented string) bool {
	return subtle.ConstantTimeCompare(a.secret, []byte(presented)) == 1
}

// IssueToken mints a signed token for an API client.
func (a *Authenticator) IssueToken(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		NodeID: a.nodeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a bearer token.
func (a *Authenticator) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	return claims, nil
}

// Authorize checks the request's bearer token. The raw shared secret is also
// accepted so that peers configured with api_key can talk to us directly.
func (a *Authenticator) Authorize(r *http.Request) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		return fmt.Errorf("missing authorization header")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		return fmt.Errorf("authorization header is not a bearer token")
	}
	if a.MatchesSecret(raw) {
		return nil
	}
	if _, err := a.Validate(raw); err != nil {
		return err
	}
	return nil
}
