package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"udyam-verification/internal/validation"

	"github.com/go-playground/validator/v10"
)

// rules maps a struct tag to the field check that backs it. Each check
// returns "" when the value is acceptable, otherwise the user message.
var rules = map[string]func(string) string{
	"aadhaar": validation.ValidateAadhaar,
	"mobile":  validation.ValidateMobile,
	"otp":     validation.ValidateOTP,
	"pan":     validation.ValidatePAN,
	"name":    validation.ValidateName,
	"pastdate": func(s string) string {
		d, err := validation.ParseDate(s)
		if err != nil {
			return validation.MsgDateInvalid
		}
		if d.After(time.Now().UTC()) {
			return validation.MsgDateFuture
		}
		return ""
	},
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, check := range rules {
		check := check
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String()) == ""
		})
	}
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// ToFieldErrors maps validator errors to field -> message, keeping the first
// failure per field. Nested fields are keyed by their dotted json path.
func ToFieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		field := e.Namespace()
		if _, rest, found := strings.Cut(field, "."); found {
			field = rest
		}
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = fieldMessage(e)
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	if e.Tag() == "required" {
		return validation.MsgRequired
	}
	if check, ok := rules[e.Tag()]; ok {
		s, _ := e.Value().(string)
		if msg := check(s); msg != "" {
			return msg
		}
	}
	return e.Tag() + " validation failed"
}
