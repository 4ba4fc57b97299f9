package auth

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/capibaras/clientele/internal/models"
	apperrors "github.com/capibaras/clientele/pkg/errors"
)

// DefaultAccessTokenTTL bounds how long an issued token stays valid.
const DefaultAccessTokenTTL = 15 * time.Minute

// Claims is the payload of tokens issued to employees. Audience mirrors the
// caller's effective role: the bare role once the employee is linked to a
// client, an "unassigned_" prefixed role before that.
type Claims struct {
	ClientID *string     `json:"cid"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Audience string      `json:"aud"`
	jwt.RegisteredClaims
}

// JWTConfig carries the signing material and token policy.
type JWTConfig struct {
	Issuer     string
	PrivateKey string // PEM-encoded Ed25519 private key
	TTL        time.Duration
}

// JWTService issues and validates Ed25519-signed employee tokens.
type JWTService struct {
	issuer     string
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	ttl        time.Duration
	now        func() time.Time
}

// NewJWTService parses the configured signing key and returns a ready
// service. The key must be a PKCS#8 Ed25519 private key in PEM form.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	block, _ := pem.Decode([]byte(cfg.PrivateKey))
	if block == nil {
		return nil, fmt.Errorf("auth: signing key is not valid PEM")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("auth: parse signing key: %w", err)
	}
	privateKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("auth: signing key is not Ed25519")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	return &JWTService{
		issuer:     cfg.Issuer,
		privateKey: privateKey,
		publicKey:  privateKey.Public().(ed25519.PublicKey),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// AudienceFor derives the token audience for an employee.
func AudienceFor(employee *models.Employee) string {
	if employee.Assigned() {
		return string(employee.Role)
	}
	return "unassigned_" + string(employee.Role)
}

// Issue signs a fresh token for the employee.
func (s *JWTService) Issue(employee *models.Employee) (string, error) {
	now := s.now()
	claims := Claims{
		ClientID: employee.ClientID,
		Email:    employee.Email,
		Role:     employee.Role,
		Audience: AudienceFor(employee),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   employee.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns its claims. The token must carry
// exactly the expected audience; any parse, signature, expiry, or audience
// failure maps to the generic token-invalid error.
//
// The audience is compared by hand: aud is a single string claim here, not
// the array the parser's own audience option reads.
func (s *JWTService) Validate(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.Audience != audience {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}
