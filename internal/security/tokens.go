package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed or fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWeakSigningSecret is returned when the signing secret is shorter than 32 bytes.
	ErrWeakSigningSecret = errors.New("signing secret must be at least 32 bytes")
)

// IdentityClaims is the caller-supplied identity embedded in access tokens.
type IdentityClaims struct {
	UserID   string
	Email    string
	Role     string
	TenantID string
	Scopes   []string
}

// AccessClaims holds the JWT claims carried by an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	SessionID string   `json:"session_id"`
	TenantID  string   `json:"tenant_id,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
}

// TokenProvider issues and verifies HS256 access tokens signed with a single shared secret.
// issuer and audience are stamped on every token and validated on verify.
type TokenProvider struct {
	secret    []byte
	issuer    string
	audience  string
	accessTTL time.Duration
}

// NewTokenProvider returns a TokenProvider. The secret must be at least 32 bytes;
// shorter secrets are rejected so a misconfigured deployment fails at startup.
func NewTokenProvider(secret []byte, issuer, audience string, accessTTL time.Duration) (*TokenProvider, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSigningSecret
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenProvider{
		secret:    secret,
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (p *TokenProvider) AccessTTL() time.Duration { return p.accessTTL }

// Issue signs a short-lived access token binding identity to sessionID.
// Returns the compact token, its jti, and expiration time.
func (p *TokenProvider) Issue(identity IdentityClaims, sessionID string) (token, jti string, expiresAt time.Time, err error) {
	jti = GenerateID()
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   identity.UserID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:     identity.Email,
		Role:      identity.Role,
		SessionID: sessionID,
		TenantID:  identity.TenantID,
		Scopes:    identity.Scopes,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, expiresAt, nil
}

// Verify parses and validates an access token (signature, alg, exp, iss, aud).
// All failures collapse to ErrInvalidToken; callers must not leak the cause
// to unauthenticated clients.
func (p *TokenProvider) Verify(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
