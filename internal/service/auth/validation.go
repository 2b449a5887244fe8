package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/vkarpov/identity/internal/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("password", validatePasswordComplexity); err != nil {
		panic(err)
	}
	return v
}

type registerInput struct {
	Login    string `validate:"required,min=4,max=25,alphanum"`
	Password string `validate:"required,min=6,password"`
}

// validateRegisterInput enforces the registration format rules before
// any store access: login of 4-25 alphanumeric characters, password of
// at least 6 characters with upper, lower, digit and special.
func validateRegisterInput(login string, password string) error {
	err := validate.Struct(registerInput{Login: login, Password: password})
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %w", apperrors.ErrValidationFailed, err)
	}

	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}

	return fmt.Errorf("%w: invalid %s", apperrors.ErrValidationFailed, strings.Join(fields, ", "))
}

// Password must contain at least one uppercase letter, one lowercase
// letter, one digit and one special (non alphanumeric) character
func validatePasswordComplexity(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
