// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// MailKind selects the template of an outbound email.
type MailKind string

const (
	MailRegistrationConfirmation MailKind = "registration_confirmation"
	MailRegistrationPending      MailKind = "registration_pending"
	MailRegistrationAdminNotice  MailKind = "registration_admin_notice"
	MailRegistrationComplete     MailKind = "registration_complete"
	MailPasswordReset            MailKind = "password_reset"
)

// MailVars are the template variables of an email.
type MailVars map[string]string
