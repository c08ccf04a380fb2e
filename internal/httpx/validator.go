package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"lms/internal/apperr"
	"lms/internal/platform/crypto"
)

var (
	validate  = newValidator()
	isbn10Re  = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Re  = regexp.MustCompile(`^\d{13}$`)
	programRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 &\-]{0,31}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("isbn", validateISBN)
	_ = v.RegisterValidation("password_strength", validatePasswordStrength)
	_ = v.RegisterValidation("program", validateProgram)
	return v
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := NormalizeISBN(fl.Field().String())
	switch len(isbn) {
	case 10:
		return isbn10Re.MatchString(isbn)
	case 13:
		return isbn13Re.MatchString(isbn)
	}
	return false
}

// NormalizeISBN strips hyphens and spaces.
func NormalizeISBN(isbn string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	return crypto.ValidatePasswordStrength(fl.Field().String()) == nil
}

func validateProgram(fl validator.FieldLevel) bool {
	return programRe.MatchString(fl.Field().String())
}

// ValidateStruct returns one detail per failed field, keyed by JSON name.
func ValidateStruct(s any) []apperr.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	out := make([]apperr.FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, apperr.FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// Validate wraps ValidateStruct into a VALIDATION_ERROR.
func Validate(s any) error {
	if fields := ValidateStruct(s); len(fields) > 0 {
		return apperr.ValidationFields("Invalid input", fields)
	}
	return nil
}

func message(e validator.FieldError) string {
	field := e.Field()
	numeric := false
	switch e.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("%s must be at least %s", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("%s must be at most %s", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "isbn":
		return fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
	case "password_strength":
		return fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
	case "program":
		return fmt.Sprintf("%s must be a valid program code", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
