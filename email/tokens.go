package email

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// for tests
var timeNow = time.Now

var ErrTokenExpired = errors.New("email: token expired")

// GenerateToken signs data into a URL-safe token. The salt is mixed into the
// signing key, so tokens minted for one purpose cannot be replayed against
// another even when the shared key is the same.
func GenerateToken(data map[string]string, key, salt string) (string, error) {
	claims := jwt.MapClaims{
		"data": data,
		"iat":  jwt.NewNumericDate(timeNow()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(deriveKey(key, salt))
	if err != nil {
		return "", fmt.Errorf("email: sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies the signature and age of a token minted by
// GenerateToken and returns its data. maxAge <= 0 disables the age check.
func ParseToken(token, key, salt string, maxAge time.Duration) (map[string]string, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) { return deriveKey(key, salt), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("email: parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("email: unexpected token claims")
	}

	if maxAge > 0 {
		issued, err := claims.GetIssuedAt()
		if err != nil || issued == nil {
			return nil, errors.New("email: token has no issue time")
		}
		if timeNow().After(issued.Add(maxAge)) {
			return nil, ErrTokenExpired
		}
	}

	raw, ok := claims["data"].(map[string]any)
	if !ok {
		return nil, errors.New("email: token has no data")
	}

	data := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("email: token data %q is not a string", k)
		}
		data[k] = s
	}
	return data, nil
}

func deriveKey(key, salt string) []byte {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(salt))
	return mac.Sum(nil)
}
