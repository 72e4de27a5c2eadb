package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignClaims signs claims with HMAC-SHA256 under signKey and returns the
// compact JWS form.
//
// Example usage:
//
//	signed, err := utils.SignClaims(claims, cfg.App.PrivateSignKey)
func SignClaims(claims jwt.Claims, signKey string) (string, error) {
	if signKey == "" {
		return "", errors.New("empty sign key")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during singing JWT token: %w", err)
	}
	return signed, nil
}

// ParseClaims validates tokenString and decodes its payload into claims.
//
// Validation includes:
//   - Signature verification with signKey; only HS256 is accepted
//   - Issuer (iss) claim check against issuer
//   - Expiration (exp) claim presence and check against now
//
// now may be nil, in which case the wall clock is used.
func ParseClaims(tokenString string, claims jwt.Claims, signKey, issuer string, now func() time.Time) error {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("error occurred validating and parsing token: %w", err)
	}
	return nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
