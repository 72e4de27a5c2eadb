// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request bodies before they reach the account
// workflows. Rules live in struct tags on the request models and are run by
// go-playground/validator; the password length policy is configured at
// construction.
package validators

import "context"

// Validator validates a request model. When fields are named, only those
// struct fields are checked; login uses this to skip the length policy that
// applies to new passwords.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}
