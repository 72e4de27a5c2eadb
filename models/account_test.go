// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_Consistent(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		reg  Registration
		want bool
	}{
		{name: "empty sub-record", reg: Registration{}, want: true},
		{name: "pending with token", reg: Registration{Status: RegistrationStatusPending, Token: "t"}, want: true},
		{name: "approved and registered", reg: Registration{Status: RegistrationStatusApproved, Date: &now, Registered: true}, want: true},
		{name: "denied", reg: Registration{Status: RegistrationStatusDenied}, want: true},
		{name: "registered without approval", reg: Registration{Status: RegistrationStatusPending, Date: &now, Registered: true}, want: false},
		{name: "registered without date", reg: Registration{Status: RegistrationStatusApproved, Registered: true}, want: false},
		{name: "approved but flag not set", reg: Registration{Status: RegistrationStatusApproved, Date: &now}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reg.Consistent())
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"john.doe@mail.example.org", true},
		{"first-last@sub.domain.info", true},
		{"user+tag@b.com", true},
		{"", false},
		{"no-at-sign.com", false},
		{"a@b", false},
		{"a@@b.com", false},
		{"a b@c.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestAccount_JSONNeverExposesSecrets(t *testing.T) {
	exp := time.Now()
	acc := Account{
		ID:             "id-1",
		Email:          "a@b.com",
		PasswordDigest: "$argon2id$secret",
		Role:           RoleUser,
		Registration:   Registration{Status: RegistrationStatusPending, Token: "reg-token"},
		Reset:          ResetCredential{Token: "reset-token", Expires: &exp},
	}

	data, err := json.Marshal(acc)
	require.NoError(t, err)

	body := string(data)
	assert.NotContains(t, body, "argon2id")
	assert.NotContains(t, body, "reg-token")
	assert.NotContains(t, body, "reset-token")
	assert.Contains(t, body, `"email":"a@b.com"`)
}

func TestAccount_Identity(t *testing.T) {
	acc := Account{Email: "root@b.com", Role: RoleAdmin}

	assert.True(t, acc.IsAdmin())
	assert.False(t, acc.IsArchived())
	assert.Equal(t, Identity{Email: "root@b.com", Role: RoleAdmin}, acc.Identity())
}
