package models

// RegistrationResult describes what registering a new account led to.
type RegistrationResult struct {
	Account Account

	// Whitelisted is true when the account skipped admin review.
	Whitelisted bool

	// Token is the registration token mailed to the user. It is empty on the
	// admin review path.
	Token Token
}

// ApprovalResult describes the outcome of an admin approval.
type ApprovalResult struct {
	Account Account

	// AlreadyRegistered is true when the approval was a no-op.
	AlreadyRegistered bool

	Token Token
}
