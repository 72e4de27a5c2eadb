package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/MKhiriev/oni-auth/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var subjects = map[models.MailKind]string{
	models.MailRegistrationConfirmation: "Confirm your email - Onboarding",
	models.MailRegistrationPending:      "Thank you for signing up! - Onboarding",
	models.MailRegistrationAdminNotice:  "New User Registration Request - Onboarding",
	models.MailRegistrationComplete:     "Registration complete - Onboarding",
	models.MailPasswordReset:            "Reset your password - Onboarding",
}

// Renderer turns a mail kind and its variables into a [Message].
//
// Variables come from user input (the email address) as well as from
// configuration, so every value is stripped of markup before it is placed
// into either body.
type Renderer struct {
	text   *texttemplate.Template
	html   *htmltemplate.Template
	policy *bluemonday.Policy
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	text, err := texttemplate.New("text").Option("missingkey=zero").ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing text templates: %w", err)
	}
	htmlTmpl, err := htmltemplate.New("html").Option("missingkey=zero").ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing html templates: %w", err)
	}

	return &Renderer{
		text:   text,
		html:   htmlTmpl,
		policy: bluemonday.StrictPolicy(),
	}, nil
}

// Render produces the subject and both bodies for kind. From and To are
// left for the caller.
func (r *Renderer) Render(kind models.MailKind, vars models.MailVars) (Message, error) {
	subject, ok := subjects[kind]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownMailKind, kind)
	}

	clean := r.sanitize(vars)

	var text bytes.Buffer
	if err := r.text.ExecuteTemplate(&text, string(kind)+".txt.tmpl", clean); err != nil {
		return Message{}, fmt.Errorf("error rendering %s text: %w", kind, err)
	}
	var body bytes.Buffer
	if err := r.html.ExecuteTemplate(&body, string(kind)+".html.tmpl", clean); err != nil {
		return Message{}, fmt.Errorf("error rendering %s html: %w", kind, err)
	}

	return Message{Subject: subject, Text: text.String(), HTML: body.String()}, nil
}

// sanitize strips tags from every value. The strict policy escapes what it
// keeps, the escaping is undone here because html/template escapes again.
func (r *Renderer) sanitize(vars models.MailVars) map[string]string {
	clean := make(map[string]string, len(vars))
	for k, v := range vars {
		clean[k] = html.UnescapeString(r.policy.Sanitize(v))
	}
	return clean
}
