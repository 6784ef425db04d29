package http

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reCPF11 = regexp.MustCompile(`^[0-9]{11}$`)
	// money comes in as free text; at most two decimal places, no sign
	reMoney = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// cpf = exactly 11 digits (the check digit itself is not verified,
	// matching the original registration form)
	_ = v.RegisterValidation("cpf11", func(fl validator.FieldLevel) bool {
		return reCPF11.MatchString(fl.Field().String())
	})
	// money = non-negative decimal string with at most 2 places
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !reMoney.MatchString(s) {
			return false
		}
		_, err := decimal.NewFromString(s)
		return err == nil
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors to []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "cpf11":
			out = append(out, FieldError{Field: field, Message: "must be exactly 11 digits"})
		case "money":
			out = append(out, FieldError{Field: field, Message: "must be a non-negative amount with at most 2 decimal places"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid e-mail address"})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must be at least " + e.Param() + " characters"})
		case "eqfield":
			out = append(out, FieldError{Field: field, Message: "must match " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
