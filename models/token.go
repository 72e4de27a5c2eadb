package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates the four kinds of signed tokens.
type TokenType string

const (
	TokenTypeSession       TokenType = "session"
	TokenTypePublic        TokenType = "public"
	TokenTypeRegistration  TokenType = "registration"
	TokenTypeResetPassword TokenType = "resetpassword"
)

// Claims is the claim set shared by all token kinds.
//
// Role and Registered are only populated on public tokens, which the browser
// application reads for UI state.
type Claims struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Type       TokenType `json:"type"`
	Role       Role      `json:"role,omitempty"`
	Registered *bool     `json:"registered,omitempty"`

	jwt.RegisteredClaims
}

// Token is a freshly minted signed token.
type Token struct {
	// Claims are the claims the token was signed with.
	Claims *Claims `json:"-"`

	// SignedString is the compact JWS form (header.payload.signature).
	SignedString string `json:"-"`

	// ExpiresAt mirrors the exp claim; cookies are given the same lifetime.
	ExpiresAt time.Time `json:"-"`
}

// String returns the compact serialized token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
