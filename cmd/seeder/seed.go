package main

import (
	"fmt"
	"time"

	"github.com/MKhiriev/oni-auth/models"
)

type hasher interface {
	Hash(password string) (string, error)
}

// seedAccounts turns seed entries into accounts. Passwords are hashed here;
// entries without one get the placeholder digest. A registered entry is
// stored approved with a registration date, so its state is consistent.
func seedAccounts(entries []models.SeedAccount, h hasher) ([]models.Account, error) {
	now := time.Now().UTC()
	accounts := make([]models.Account, 0, len(entries))

	for _, e := range entries {
		if !models.ValidEmail(e.Email) {
			return nil, fmt.Errorf("seed account %q: invalid email", e.Email)
		}

		account := models.Account{
			Email:          models.NormalizeEmail(e.Email),
			Role:           e.Role,
			ExternalID:     e.ExternalID,
			PasswordDigest: models.SeedPlaceholderDigest,
			Registration:   models.Registration{Status: e.Status},
		}
		if account.Role != "" && !account.Role.Valid() {
			return nil, fmt.Errorf("seed account %s: unknown role %q", account.Email, e.Role)
		}

		if e.Password != "" {
			digest, err := h.Hash(e.Password)
			if err != nil {
				return nil, fmt.Errorf("seed account %s: %w", account.Email, err)
			}
			account.PasswordDigest = digest
		}

		if e.Registered {
			account.Registration.Status = models.RegistrationStatusApproved
			account.Registration.Registered = true
			account.Registration.Date = &now
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}
