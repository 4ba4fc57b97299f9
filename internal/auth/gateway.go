package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/capibaras/clientele/internal/models"
	apperrors "github.com/capibaras/clientele/pkg/errors"
)

// UserInfoHeader carries the caller identity injected by the API gateway
// after it has verified the bearer token. The value is url-safe base64 of a
// JSON claims object.
const UserInfoHeader = "X-Apigateway-Api-Userinfo"

// requiredClaims lists the claims every gateway payload must carry, in the
// order they are reported missing.
var requiredClaims = []string{"sub", "cid", "role", "aud"}

// Identity is the caller identity extracted from the gateway header.
// ClientID is nil for callers not yet linked to a client company. Email is
// carried when the gateway forwards it but is not a required claim.
type Identity struct {
	Subject  string
	ClientID *string
	Role     models.Role
	Audience string
	Email    string
}

// ParseIdentity extracts and validates the caller identity from the gateway
// header of an incoming request.
//
// It distinguishes three failure modes, all 401: no header at all, a header
// that cannot be decoded, and a decoded payload missing a required claim. The
// cid claim may be null but the key itself must be present.
func ParseIdentity(r *http.Request) (*Identity, error) {
	raw := r.Header.Get(UserInfoHeader)
	if raw == "" {
		return nil, apperrors.ErrTokenMissing
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	for _, claim := range requiredClaims {
		if _, ok := payload[claim]; !ok {
			return nil, apperrors.New(http.StatusUnauthorized,
				fmt.Sprintf("%s is missing in token", claim))
		}
	}

	var claims struct {
		Sub   string  `json:"sub"`
		Cid   *string `json:"cid"`
		Role  string  `json:"role"`
		Aud   string  `json:"aud"`
		Email string  `json:"email"`
	}
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	return &Identity{
		Subject:  claims.Sub,
		ClientID: claims.Cid,
		Role:     models.Role(claims.Role),
		Audience: claims.Aud,
		Email:    claims.Email,
	}, nil
}

// EncodeIdentity renders claims the way the gateway does. Test support.
func EncodeIdentity(claims map[string]any) string {
	data, _ := json.Marshal(claims)
	return base64.URLEncoding.EncodeToString(data)
}
