package models

import "time"

// CSRFContext is the anti-forgery state carried in the _csrf cookie.
type CSRFContext struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Expired reports whether the context is past its expiry at now.
func (c CSRFContext) Expired(now time.Time) bool {
	return now.After(c.Expires)
}
