// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"regexp"
	"strings"
	"time"
)

// Role is the authorization level of an [Account].
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// RegistrationStatus is the state of the registration workflow for an account.
// The zero value means the account has not entered the workflow yet.
type RegistrationStatus string

const (
	RegistrationStatusNone     RegistrationStatus = ""
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusDenied   RegistrationStatus = "denied"
)

// Registration holds the registration sub-record of an account.
type Registration struct {
	// Date is set when the confirmation link has been exercised.
	Date *time.Time `json:"date,omitempty"`

	// Status is the current workflow state.
	Status RegistrationStatus `json:"status,omitempty"`

	// Registered becomes true only together with Status=approved and a Date.
	Registered bool `json:"registered"`

	// Token is the outstanding single-use registration token, empty when none.
	Token string `json:"-"`
}

// Consistent reports whether the registered flag agrees with status and date.
func (r Registration) Consistent() bool {
	return r.Registered == (r.Status == RegistrationStatusApproved && r.Date != nil)
}

// ResetCredential holds an outstanding password reset token and its expiry.
type ResetCredential struct {
	Token   string     `json:"-"`
	Expires *time.Time `json:"-"`
}

// Account is a user account.
//
// PasswordDigest and the token fields never leave the server: they are
// excluded from JSON serialization.
type Account struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	PasswordDigest string          `json:"-"`
	ExternalID     string          `json:"externalId,omitempty"`
	Role           Role            `json:"role"`
	Registration   Registration    `json:"registration"`
	Reset          ResetCredential `json:"-"`
	Archived       *time.Time      `json:"archived,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// IsAdmin reports whether the account holds the admin role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsArchived reports whether the account has been soft-deleted.
func (a Account) IsArchived() bool {
	return a.Archived != nil
}

// Identity returns the minimal public identity of the account.
func (a Account) Identity() Identity {
	return Identity{Email: a.Email, Role: a.Role}
}

// Identity is what "who am I" reports about the authenticated caller.
type Identity struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

var emailPattern = regexp.MustCompile(`^\w+([\.+-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,})+$`)

// NormalizeEmail trims and lowercases an address. Emails are stored normalized.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email matches the accepted address pattern.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
