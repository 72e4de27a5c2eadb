package utils

import "github.com/google/uuid"

// UUIDGenerator mints identifiers for accounts and whitelist entries.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7 so ids sort by creation time in the indexes.
// A random v4 is used if v7 generation fails.
func (g *UUIDGenerator) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
