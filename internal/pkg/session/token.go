package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
)

// Claims is the JWT payload minted on a successful /login/: the peer's
// ASN as subject plus a unique jti, expiring after the session TTL.
type Claims struct {
	ASN int64 `json:"asn"`
	jwt.RegisteredClaims
}

// Minter signs short-lived session tokens with a single HMAC secret.
type Minter struct {
	secret []byte
	ttl    time.Duration
}

// NewMinter returns a Minter using secret to sign tokens valid for ttl.
func NewMinter(secret string, ttl time.Duration) *Minter {
	return &Minter{secret: []byte(secret), ttl: ttl}
}

// Mint returns a signed JWT for asn, unique per call via its jti claim.
func (m *Minter) Mint(asn int64) (string, error) {
	now := time.Now()
	claims := Claims{
		ASN: asn,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", asn),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.WithCode(code.ErrTokenInvalid, "failed to sign session token: %v", err)
	}
	return signed, nil
}

// Parse validates signed against m's secret and returns its claims. It
// does not consult the token cache; single-use enforcement is Cache's job.
func (m *Minter) Parse(signed string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.WithCode(code.ErrTokenInvalid, "token is invalid")
	}
	return claims, nil
}
