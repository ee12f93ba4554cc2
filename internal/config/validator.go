package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("source", isDatasetSource); err != nil {
		return nil, nil, fmt.Errorf("failed to register source validation: %w", err)
	}
	if err := validate.RegisterTranslation("source", trans, func(ut ut.Translator) error {
		return ut.Add("source", "{0} must be an http(s) URL, a file:// URL or a file path", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("source", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register source translation: %w", err)
	}

	return validate, trans, nil
}

// isDatasetSource accepts the locations the dataset fetcher can read from.
func isDatasetSource(fl validator.FieldLevel) bool {
	source := strings.TrimSpace(fl.Field().String())
	if source == "" {
		return false
	}

	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" {
		return true
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "file":
		return u.Path != ""
	}
	// Windows drive letters parse as a one letter scheme
	return len(u.Scheme) == 1
}
