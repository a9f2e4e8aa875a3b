package utils

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs struct-tag validation and flattens the result to one
// message a client can act on.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fe.Field())
		case "email":
			return fmt.Errorf("%s must be a valid email address", fe.Field())
		case "min":
			return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
		case "len":
			return fmt.Errorf("%s must be exactly %s characters long", fe.Field(), fe.Param())
		case "numeric":
			return fmt.Errorf("%s must be numeric", fe.Field())
		default:
			return fmt.Errorf("validation failed on field %s", fe.Field())
		}
	}
	return err
}

// ValidatePasswordStrength enforces the registration password policy: at
// least 8 characters with at least one letter, one digit and one symbol.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasLetter || !hasDigit || !hasSymbol {
		return errors.New("password must contain at least one letter, one digit and one special character")
	}
	return nil
}
