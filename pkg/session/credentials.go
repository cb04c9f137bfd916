package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate trims the email and checks both fields. Failures are reported as
// a *ValidationError keyed by json field name.
func (c *Credentials) Validate() error {
	c.Email = strings.TrimSpace(c.Email)

	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		verr.Fields[field] = messageFor(field, fe.Tag())
	}
	return verr
}

func messageFor(field, tag string) string {
	switch tag {
	case "required":
		return "Please fill in all fields"
	case "email":
		return "Please enter a valid email address"
	case "min":
		if field == "password" {
			return "Password must be at least 6 characters"
		}
	}
	return fmt.Sprintf("%s is invalid", field)
}

// ValidationError lists per field failures.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "session: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
