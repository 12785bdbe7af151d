// Package jwtrsa emite y verifica tokens JWT firmados con RSA (RS256).
// La clave privada solo la necesita el emisor; el verificador funciona
// con la pública.
package jwtrsa

import (
	"context"
	"crypto/rsa"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vet-clinic-backend/internal/ports/auth"
)

const DefaultTTL = 24 * time.Hour

type tokenClaims struct {
	jwt.RegisteredClaims

	UserID   int64  `json:"uid"`
	Role     string `json:"role"`
	ClientID *int64 `json:"client_id,omitempty"`
	VetID    *int64 `json:"vet_id,omitempty"`
}

type Issuer struct {
	key *rsa.PrivateKey
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(key *rsa.PrivateKey, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

var _ auth.TokenIssuer = (*Issuer)(nil)

// Issue firma un token RS256 con el email como subject.
func (i *Issuer) Issue(c auth.Claims) (string, error) {
	now := i.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        strconv.FormatInt(c.UserID, 10),
		},
		UserID:   c.UserID,
		Role:     c.Role,
		ClientID: c.ClientID,
		VetID:    c.VetID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.key)
}

type Verifier struct {
	key *rsa.PublicKey
	now func() time.Time
}

func NewVerifier(key *rsa.PublicKey) *Verifier {
	return &Verifier{key: key, now: time.Now}
}

var _ auth.AuthVerifier = (*Verifier)(nil)

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return auth.Claims{}, err
	}
	if !parsed.Valid {
		return auth.Claims{}, errors.New("invalid token")
	}
	return auth.Claims{
		UserID:   claims.UserID,
		Email:    claims.Subject,
		Role:     claims.Role,
		ClientID: claims.ClientID,
		VetID:    claims.VetID,
	}, nil
}

// LoadPrivateKey lee una clave RSA privada en formato PEM (PKCS#1 o PKCS#8).
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(pem)
}

// LoadPublicKey lee una clave RSA pública en formato PEM.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(pem)
}
