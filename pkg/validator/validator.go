package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Filtered is implemented by deletion payloads that must name at least one
// filter criterion before they are allowed near storage
type Filtered interface {
	HasFilter() bool
	FilterFields() []string
}

// Validator checks payloads against the `validate` struct tags of their schema
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their json names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns payload unchanged when it satisfies its schema, or a
// ValidationError listing one field-path message per violation
func Validate[T any](v *Validator, payload T) (T, error) {
	var details []string

	if err := v.validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			var zero T
			return zero, pkgerrors.NewValidationError(err.Error())
		}
		for _, fe := range fieldErrs {
			details = append(details, fieldPath(fe.Namespace())+": "+message(fe))
		}
	}

	if f, ok := any(payload).(Filtered); ok && !f.HasFilter() {
		details = append(details, "filter: at least one of "+strings.Join(f.FilterFields(), ", ")+" is required")
	}

	if len(details) > 0 {
		var zero T
		return zero, pkgerrors.NewValidationError("invalid payload", details...)
	}
	return payload, nil
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return bound("at least", fe)
	case "max":
		return bound("at most", fe)
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "url", "http_url":
		return "must be a valid URL"
	case "slug":
		return "must contain only lowercase letters, digits and hyphens"
	default:
		return "failed on " + fe.Tag()
	}
}

func bound(qualifier string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters long", qualifier, fe.Param())
	case reflect.Slice, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", qualifier, fe.Param())
	default:
		return fmt.Sprintf("must be %s %s", qualifier, fe.Param())
	}
}
