package models

// Credentials is the body of login and register requests.
type Credentials struct {
	Email    string `json:"email" validate:"required,account_email"`
	Password string `json:"password" validate:"required"`
}

// EmailRequest is the body of requests that only name an account.
type EmailRequest struct {
	Email string `json:"email" validate:"required,account_email"`
}

// PasswordRequest is the body of the password update request.
type PasswordRequest struct {
	Password string `json:"password" validate:"required"`
}
