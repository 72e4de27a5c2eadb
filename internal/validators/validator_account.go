package validators

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/MKhiriev/oni-auth/models"
	"github.com/go-playground/validator/v10"
)

// Field names accepted by [AccountValidator.Validate] for scoping.
const (
	FieldEmail    = "Email"
	FieldPassword = "Password"

	// FieldPasswordPolicy additionally enforces the minimum password length.
	// Login requests skip it so old passwords keep working after a policy change.
	FieldPasswordPolicy = "PasswordPolicy"
)

// AccountValidator validates account request bodies with struct tags
// (go-playground/validator) plus the password length policy.
type AccountValidator struct {
	validate          *validator.Validate
	passwordMinLength int
}

// NewAccountValidator builds a validator with the "account_email" tag
// registered.
func NewAccountValidator(passwordMinLength int) Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// the tag is static and the function is non-nil, registration cannot fail
	_ = v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return models.ValidEmail(models.NormalizeEmail(fl.Field().String()))
	})

	return &AccountValidator{validate: v, passwordMinLength: passwordMinLength}
}

// Validate checks obj. Without fields every tag rule and the password
// policy apply; with fields only the named struct fields are checked.
func (v *AccountValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	case models.EmailRequest:
		return v.structRules(ctx, value, fields)
	case *models.EmailRequest:
		return v.structRules(ctx, *value, fields)

	case models.PasswordRequest:
		return v.validatePasswordRequest(ctx, value, fields...)
	case *models.PasswordRequest:
		return v.validatePasswordRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *AccountValidator) validateCredentials(ctx context.Context, creds models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword, FieldPasswordPolicy}
	}

	tagFields, policy, err := splitPolicy(fields)
	if err != nil {
		return err
	}
	if len(tagFields) > 0 {
		if err = v.structRules(ctx, creds, tagFields); err != nil {
			return err
		}
	}
	if policy {
		return v.passwordPolicy(creds.Password)
	}
	return nil
}

func (v *AccountValidator) validatePasswordRequest(ctx context.Context, req models.PasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPassword, FieldPasswordPolicy}
	}

	tagFields, policy, err := splitPolicy(fields)
	if err != nil {
		return err
	}
	if len(tagFields) > 0 {
		if err = v.structRules(ctx, req, tagFields); err != nil {
			return err
		}
	}
	if policy {
		return v.passwordPolicy(req.Password)
	}
	return nil
}

func (v *AccountValidator) passwordPolicy(password string) error {
	if utf8.RuneCountInString(password) < v.passwordMinLength {
		return fmt.Errorf("%w: minimum length is %d", ErrPasswordTooShort, v.passwordMinLength)
	}
	return nil
}

func (v *AccountValidator) structRules(ctx context.Context, obj any, fields []string) error {
	var err error
	if len(fields) == 0 {
		err = v.validate.StructCtx(ctx, obj)
	} else {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", ErrUnknownField, err)
	}

	// report the first failing field, in declaration order
	switch fe := fieldErrs[0]; fe.Field() {
	case FieldEmail:
		return ErrInvalidEmail
	case FieldPassword:
		return ErrEmptyPassword
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, fe.Field())
	}
}

func splitPolicy(fields []string) ([]string, bool, error) {
	tagFields := make([]string, 0, len(fields))
	policy := false
	for _, f := range fields {
		switch f {
		case FieldEmail, FieldPassword:
			tagFields = append(tagFields, f)
		case FieldPasswordPolicy:
			policy = true
		default:
			return nil, false, ErrUnknownField
		}
	}
	if len(tagFields) == 0 && !policy {
		return nil, false, ErrUnknownField
	}
	return tagFields, policy, nil
}
