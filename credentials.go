package authkit

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var credentialValidator = validator.New(validator.WithRequiredStructEnabled())

// Credentials is the login/signup input pair with its caller-side
// validation. The Session engine itself does not re-validate format; screens
// call [Credentials.Validate] before invoking Login or Signup so that a
// malformed input never reaches the network.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=1"`
}

// Validate reports the first validation problem wrapped around
// [ErrValidation], or nil.
func (c Credentials) Validate() error {
	err := credentialValidator.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		switch first.Tag() {
		case "required", "min":
			return fmt.Errorf("%w: %s is required", ErrValidation, fieldName(first.Field()))
		case "email":
			return fmt.Errorf("%w: email address is malformed", ErrValidation)
		}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func fieldName(structField string) string {
	switch structField {
	case "Email":
		return "email"
	case "Password":
		return "password"
	default:
		return structField
	}
}
