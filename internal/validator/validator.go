package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-booking-api/internal/domain"
)

var phoneRgx = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names so messages match the request body
	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterValidation("phone", validatePhone)

	return validator
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}

	return name
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "phone":
		return "must be a phone number of 7 to 15 digits"
	default:
		return "is invalid"
	}
}

// ToValidationError turns the error of a Struct call into a
// *domain.ValidationError. Errors that are not field errors are returned
// unchanged.
func ToValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]domain.FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = domain.FieldError{
			Field: fe.Field(),
			Issue: ValidationMessage(fe),
		}
	}

	return &domain.ValidationError{Fields: fields}
}
