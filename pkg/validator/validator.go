package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Register installs the custom tags on gin's binding validator and makes
// validation errors report JSON field names. Safe to call more than once.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation("username", ValidUsername)
}

// ValidUsername accepts letters, digits and underscores only.
func ValidUsername(fl validator.FieldLevel) bool {
	return IsUsername(fl.Field().String())
}

// IsUsername applies the username character rule to s.
func IsUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func ParseError(err error) map[string]string {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			errors[fe.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}
	} else if err != nil {
		errors["error"] = err.Error()
	}
	return errors
}
