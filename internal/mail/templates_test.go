package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/models"
)

func TestRenderer_RendersEveryKind(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	vars := models.MailVars{
		"Email":        "a@b.com",
		"Link":         "https://auth.example.com/api/v1/auth/register/confirm?token=abc&x=1",
		"ExpiresIn":    "1h0m0s",
		"SupportEmail": "support@example.com",
		"LoginURL":     "https://app.example.com/login",
		"AdminURL":     "https://app.example.com/admin/login",
	}

	for kind, subject := range subjects {
		t.Run(string(kind), func(t *testing.T) {
			msg, err := r.Render(kind, vars)
			require.NoError(t, err)

			assert.Equal(t, subject, msg.Subject)
			assert.Contains(t, msg.Text, "a@b.com")
			assert.Contains(t, msg.HTML, "a@b.com")
			assert.Contains(t, msg.HTML, "<html>")
		})
	}
}

func TestRenderer_LinkIsKeptIntact(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	link := "https://auth.example.com/api/v1/auth/register/confirm?token=abc&x=1"
	msg, err := r.Render(models.MailRegistrationConfirmation, models.MailVars{"Email": "a@b.com", "Link": link})
	require.NoError(t, err)

	assert.Contains(t, msg.Text, link)
	assert.Contains(t, msg.HTML, `href="https://auth.example.com/api/v1/auth/register/confirm?token=abc&amp;x=1"`)
}

func TestRenderer_StripsMarkupFromVariables(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	msg, err := r.Render(models.MailRegistrationAdminNotice, models.MailVars{
		"Email": `<script>alert(1)</script><b>eve</b>@b.com`,
	})
	require.NoError(t, err)

	assert.NotContains(t, msg.Text, "<script>")
	assert.NotContains(t, msg.Text, "<b>")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.NotContains(t, msg.HTML, "<b>eve")
	assert.Contains(t, msg.Text, "eve@b.com")
}

func TestRenderer_OptionalBlocks(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	msg, err := r.Render(models.MailRegistrationPending, models.MailVars{"Email": "a@b.com"})
	require.NoError(t, err)
	assert.NotContains(t, msg.Text, "contact us")
	assert.NotContains(t, msg.Text, "<no value>")
}

func TestRenderer_UnknownKind(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render(models.MailKind("newsletter"), nil)
	assert.ErrorIs(t, err, ErrUnknownMailKind)
}
