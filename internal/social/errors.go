package social

import "errors"

var (
	// ErrExchange is returned when the token endpoint rejects the code.
	ErrExchange = errors.New("oauth code exchange failed")

	// ErrUserInfo is returned when the profile cannot be fetched or lacks an
	// id or email.
	ErrUserInfo = errors.New("oauth user info request failed")
)
