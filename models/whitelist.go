// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// WhitelistEntry exempts an exact email or a whole domain from admin
// approval. Exactly one of Email and Domain is set.
type WhitelistEntry struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Domain    string    `json:"domain,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// EmailDomain returns the lowercased part of email after the last '@', or an
// empty string when there is none.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// DomainSuffixes lists domain and each of its parent domains, most specific
// first: "mail.b.com" yields ["mail.b.com", "b.com", "com"].
//
// A whitelisted domain matches a candidate when it equals one of these
// suffixes, which whitelists subdomains but never unrelated domains that
// merely contain the candidate as a substring.
func DomainSuffixes(domain string) []string {
	domain = strings.Trim(strings.ToLower(domain), ".")
	if domain == "" {
		return nil
	}

	suffixes := []string{domain}
	for i := 0; i < len(domain); i++ {
		if domain[i] == '.' && i+1 < len(domain) {
			suffixes = append(suffixes, domain[i+1:])
		}
	}
	return suffixes
}
