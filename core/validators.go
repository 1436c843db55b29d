package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	campusEmailTag   = "campus_email"
	campusEmailText  = "must be a valid campus email (e.g. abc@chitkara.edu.in)"
	campusEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@chitkara\.edu\.in$`)

	hexIDTag  = "hexid"
	hexIDText = "invalid ID format"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(campusEmailTag, campusEmailValidation)
	RegisterCustomTranslation(validate, translator, campusEmailTag, campusEmailText)

	_ = validate.RegisterValidation(hexIDTag, hexIDValidation)
	RegisterCustomTranslation(validate, translator, hexIDTag, hexIDText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// campusEmailValidation only allows institutional email addresses.
func campusEmailValidation(fl validator.FieldLevel) bool {
	return campusEmailRegex.MatchString(fl.Field().String())
}

// hexIDValidation checks for a well-formed document ID.
func hexIDValidation(fl validator.FieldLevel) bool {
	return IsHexID(fl.Field().String())
}
