package models

// SeedAccount is an account as written in a seed file. Password is plain
// text and may be empty, in which case a placeholder digest is stored.
type SeedAccount struct {
	Email      string             `json:"email"`
	Password   string             `json:"password,omitempty"`
	Role       Role               `json:"role,omitempty"`
	ExternalID string             `json:"externalId,omitempty"`
	Status     RegistrationStatus `json:"status,omitempty"`
	Registered bool               `json:"registered,omitempty"`
}

// SeedData is the content of a seed file.
type SeedData struct {
	Accounts  []SeedAccount    `json:"accounts"`
	Whitelist []WhitelistEntry `json:"whitelist"`
}

// SeedPlaceholderDigest is stored for seeded accounts that have no
// password. It is not a valid digest, so such accounts can never log in with
// a password. It is only ever written by the seeder.
const SeedPlaceholderDigest = "$seed$no-password"
