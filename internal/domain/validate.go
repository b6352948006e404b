package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON name so ValidationError.Field
// matches what the site sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request after trimming every field. The first offending
// field, in declaration order, is reported.
func (r NotificationRequest) Validate() error {
	trimmed := r.Trimmed()
	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return NewValidationError(fe.Field(), reason(fe.Tag()))
	}
	return err
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (r NotificationRequest) Trimmed() NotificationRequest {
	r.SenderName = strings.TrimSpace(r.SenderName)
	r.SenderEmail = strings.TrimSpace(r.SenderEmail)
	r.SenderPhone = strings.TrimSpace(r.SenderPhone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Body = strings.TrimSpace(r.Body)
	return r
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	case "email":
		return "must be an email address"
	default:
		return "failed " + tag + " check"
	}
}
