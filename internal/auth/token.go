package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/habitflow/habitflow/internal/models"
)

const (
	// TokenTTL is the session token lifetime.
	TokenTTL = 7 * 24 * time.Hour
	// Issuer identifies tokens minted by this service.
	Issuer = "habitflow"
)

// TokenManager signs and verifies session tokens with a shared HS256 secret.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager creates a token manager. The secret must be non-empty;
// config validation enforces a minimum length.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret cannot be empty")
	}
	return &TokenManager{secret: []byte(secret), issuer: Issuer}, nil
}

// Issue mints a signed session token for a user.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Subject(user.ID.String()).
		Issuer(m.issuer).
		IssuedAt(now).
		Expiration(now.Add(TokenTTL)).
		Claim("email", user.Email).
		Claim("name", user.Name).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}

// Verify parses and validates a token string and extracts its claims.
// Expiry and issuer are checked; the user id must be a valid UUID.
func (m *TokenManager) Verify(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	claims := &models.JWTClaims{
		Sub: token.Subject(),
		Iss: token.Issuer(),
		Exp: token.Expiration().Unix(),
		Iat: token.IssuedAt().Unix(),
	}

	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}
	if name, ok := token.Get("name"); ok {
		if nameStr, ok := name.(string); ok {
			claims.Name = nameStr
		}
	}

	if _, err := uuid.Parse(claims.Sub); err != nil {
		return nil, fmt.Errorf("token subject is not a valid user id: %w", err)
	}

	return claims, nil
}
