package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

const MaxUsernameLength = 150

type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register username validation: %v", err))
	}
	return v
}

// ValidateUsername enforces the users.username column constraints.
func ValidateUsername(username string) error {
	return validate.Var(username, "required,max=150,username")
}
