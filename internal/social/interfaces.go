// Package social implements federated sign-in through an OAuth 2.0
// authorization code flow. Google is the only provider.
package social

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/social_mock.go -package=mock

// Provider is one OAuth 2.0 identity provider.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// AuthCodeURL is where the browser is sent to sign in. state comes back
	// unchanged on the callback.
	AuthCodeURL(state string) string

	// Exchange trades the callback code for the signed-in user's profile.
	Exchange(ctx context.Context, code string) (Profile, error)
}

// Profile is the identity a provider vouches for.
type Profile struct {
	// Subject is the provider's stable user id.
	Subject       string
	Email         string
	EmailVerified bool
}
