package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and checks HS256 tokens whose subject is the user's email.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken creates a signed token for the given email.
func (m *TokenManager) GenerateToken(email string) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub": email,                 // "sub" (Subject) carries the email
		"exp": now.Add(m.ttl).Unix(), // Expiry
		"iat": now.Unix(),            // "iat" (Issued At)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token string.
// It returns the email (subject) if the token is valid.
func (m *TokenManager) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Only accept the algorithm we sign with.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", err // expired, malformed or badly signed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", errors.New("invalid subject claim")
	}
	return email, nil
}
