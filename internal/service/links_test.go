package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/oni-auth/internal/config"
)

func TestExpiresIn(t *testing.T) {
	tests := map[time.Duration]string{
		time.Hour:        "1 hour",
		24 * time.Hour:   "24 hours",
		90 * time.Minute: "90 minutes",
		10 * time.Minute: "10 minutes",
		time.Minute:      "1 minute",
		30 * time.Second: "30 seconds",
	}
	for d, want := range tests {
		assert.Equal(t, want, expiresIn(d), d.String())
	}
}

func TestLinks(t *testing.T) {
	l := newLinks(testAppConfig())

	assert.Equal(t, "https://api.example.com/api/v1/auth/resetpassword?token=t", l.resetPassword("t"))
	assert.Equal(t, "https://app.example.com/admin/login", l.adminLogin())
	assert.Equal(t, "support@app.example.com", l.supportEmail())

	assert.Empty(t, newLinks(config.App{}).supportEmail())
}
