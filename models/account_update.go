package models

import "time"

// TokenField names the account column a single-use token is stored in.
type TokenField string

const (
	RegistrationTokenField TokenField = "registration_token"
	ResetTokenField        TokenField = "reset_token"
)

// AccountSelector selects the account an update applies to.
//
// All non-zero fields are combined with AND, so a selector doubles as the
// precondition of a compare-and-set update: if the row no longer matches
// (for example the status moved on concurrently) nothing is written.
type AccountSelector struct {
	ID                string
	Email             string
	RegistrationToken string
	ResetToken        string

	// Status restricts the update to rows in the given registration state.
	// A pointer to RegistrationStatusNone matches rows with no status.
	Status *RegistrationStatus

	// Registered restricts the update on the registered flag.
	Registered *bool
}

// Empty reports whether the selector has no conditions at all.
func (s AccountSelector) Empty() bool {
	return s.ID == "" && s.Email == "" && s.RegistrationToken == "" && s.ResetToken == "" &&
		s.Status == nil && s.Registered == nil
}

// AccountUpdate is a partial update of an account. Nil fields are left as is.
//
// For RegistrationToken, RegistrationStatus and ExternalID a pointer to the
// zero value clears the column to NULL.
type AccountUpdate struct {
	PasswordDigest     *string
	ExternalID         *string
	Role               *Role
	RegistrationStatus *RegistrationStatus
	Registered         *bool
	RegistrationDate   *time.Time
	RegistrationToken  *string
	ResetToken         *string
	ResetExpires       *time.Time

	// ClearReset sets both reset columns to NULL. It wins over ResetToken and
	// ResetExpires.
	ClearReset bool

	Archived *time.Time
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.PasswordDigest == nil && u.ExternalID == nil && u.Role == nil &&
		u.RegistrationStatus == nil && u.Registered == nil && u.RegistrationDate == nil &&
		u.RegistrationToken == nil && u.ResetToken == nil && u.ResetExpires == nil &&
		!u.ClearReset && u.Archived == nil
}

// Ptr returns a pointer to v. It keeps update literals short.
func Ptr[T any](v T) *T {
	return &v
}
