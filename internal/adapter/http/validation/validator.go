package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"todoapi/internal/core/model/response"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the request body.
	Validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		if name == "" {
			return field.Name
		}

		return name
	})

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}
}

// Validate runs the struct's validate rules and returns one entry per
// violated field, or nil when v is valid.
func Validate(v any) []response.ValidationError {
	err := Validator.Struct(v)

	if err == nil {
		return nil
	}

	return FormatValidationErrors(err)
}

func FormatValidationErrors(err error) []response.ValidationError {
	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return []response.ValidationError{{Field: "body", Message: err.Error()}}
	}

	result := make([]response.ValidationError, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		result = append(result, response.ValidationError{
			Field:   fieldError.Field(),
			Message: fieldError.Translate(Translator),
		})
	}

	return result
}

// Message flattens violations into a single line:
// "Validation error: [text: text must be at least 1 character in length]".
func Message(violations []response.ValidationError) string {
	parts := make([]string, 0, len(violations))

	for _, violation := range violations {
		parts = append(parts, fmt.Sprintf("%s: %s", violation.Field, violation.Message))
	}

	return fmt.Sprintf("Validation error: [%s]", strings.Join(parts, ", "))
}
