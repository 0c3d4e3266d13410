package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid token")

const issuer = "clawbot"

// Claims carry the caller principal as the token subject
type Claims struct {
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// Issue signs a token naming p as the caller. A zero ttl never expires.
func (i *Issuer) Issue(p model.Principal, ttl time.Duration) (string, error) {
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidPrincipal, p)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  p.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed signing token")
	}
	return signed, nil
}

// Parse verifies the token and returns the caller principal it names
func (i *Issuer) Parse(token string) (model.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}
	p, err := model.ParsePrincipal(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: bad subject: %s", ErrInvalidToken, err)
	}
	return p, nil
}
