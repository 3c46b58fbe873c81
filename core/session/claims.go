package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Claims represents the identity claims carried by a session token.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewClaims builds the claims for a session record.
func NewClaims(sess Session, appName string, expirationDelta time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   sess.ID,
			ExpiresAt: now.Add(expirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  sess.Name,
		Email: sess.Email,
		Role:  sess.Role,
	}
}

// SignToken generates a signed token string representing the Claims.
func SignToken(claims *Claims, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(secretKey)
	return ss, errors.Wrap(err, "signing token")
}

// ParseToken validates a signed session token and returns its Claims.
// An expired token yields ErrExpired.
func ParseToken(tokenStr string, secretKey []byte) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpired
		}
		return nil, errors.Wrap(err, "parsing token")
	}
	return claims, nil
}

// Verify checks the session's embedded token against the signing key.
// A session without a token is accepted as-is.
func (s Session) Verify(secretKey []byte) error {
	if err := s.Check(); err != nil {
		return err
	}
	if s.Token == "" {
		return nil
	}
	claims, err := ParseToken(s.Token, secretKey)
	if err != nil {
		return err
	}
	if claims.Subject != s.ID {
		return errors.New("session token does not match the persisted identity")
	}
	return nil
}
