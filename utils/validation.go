package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	translator ut.Translator
	validate   *validator.Validate
)

func InitValidator() *validator.Validate {
	if validate == nil {
		validate = validator.New()

		// Report fields by their wire names (TranID, Debit_Acct_No) rather than Go names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})

		english := en.New()
		uni := ut.New(english, english)
		translator, _ = uni.GetTranslator("en")

		_ = enTranslations.RegisterDefaultTranslations(validate, translator)
	}

	return validate
}

func GetTranslator() ut.Translator {
	if translator == nil {
		InitValidator()
	}
	return translator
}

func FormatValidationErrors(err error) map[string]string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{
			"error": err.Error(),
		}
	}

	trans := GetTranslator()
	errors := make(map[string]string)

	for _, e := range validationErrors {
		errors[e.Field()] = e.Translate(trans)
	}

	return errors
}

// FirstValidationError returns the first failing field in struct order with its translated message.
func FirstValidationError(err error) (field, message string) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "", err.Error()
	}

	first := validationErrors[0]
	return first.Field(), first.Translate(GetTranslator())
}
