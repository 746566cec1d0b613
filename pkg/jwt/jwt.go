package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer = "aozu-ops-hub"
	// SubjectIdentity marks ID tokens; nothing else may be used to sign in.
	SubjectIdentity = "id"
)

var (
	ErrMissingUserID = errors.New("token has no uid claim")
	ErrWrongSubject  = errors.New("token is not an identity token")
)

// Claims mirrors the identity provider's ID token: a stable uid plus the
// optional display profile.
type Claims struct {
	UserID  string `json:"uid"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// GenerateIdentityToken signs an ID token carrying the user's profile.
func GenerateIdentityToken(userID, name, picture string, expiration time.Duration, secret string) (string, error) {
	return sign(Claims{UserID: userID, Name: name, Picture: picture}, expiration, secret, SubjectIdentity)
}

func sign(claims Claims, expiration time.Duration, secret, subject string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies an ID token's signature and lifetime and returns its
// claims. Tokens with another subject or without a uid are rejected.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject != SubjectIdentity {
		return nil, ErrWrongSubject
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}
