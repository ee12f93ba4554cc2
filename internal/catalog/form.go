package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

var ErrValidation = errors.New("invalid phone")

// FieldError is a single rejected form field with a human readable message.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every rejected field of a form. errors.Is matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(messages, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Form is the flat set of user-entered fields for adding or editing a phone.
// On edit, a blank field keeps the current value.
type Form struct {
	Brand           string `json:"brand" validate:"required"`
	Model           string `json:"model" validate:"required"`
	Series          string `json:"series,omitempty"`
	Category        string `json:"category,omitempty"`
	ProcessorBrand  string `json:"processor_brand,omitempty"`
	ProcessorModel  string `json:"processor_model,omitempty"`
	RAM             string `json:"ram,omitempty"`
	Storage         string `json:"storage,omitempty"`
	DisplaySize     string `json:"display_size,omitempty"`
	Resolution      string `json:"resolution,omitempty"`
	RefreshRate     string `json:"refresh_rate,omitempty"`
	RearCamera      string `json:"rear_camera,omitempty"`
	FrontCamera     string `json:"front_camera,omitempty"`
	BatteryCapacity string `json:"battery_capacity,omitempty"`
	Charging        string `json:"charging,omitempty"`
	StartPrice      string `json:"start_price,omitempty"`
	ReleaseDate     string `json:"release_date,omitempty"`
	Features        string `json:"features,omitempty"`
	Description     string `json:"description,omitempty"`
}

func (f Form) trimmed() Form {
	v := reflect.ValueOf(&f).Elem()
	for i := 0; i < v.NumField(); i++ {
		if field := v.Field(i); field.Kind() == reflect.String {
			field.SetString(strings.TrimSpace(field.String()))
		}
	}
	return f
}

// SplitFeatures splits a comma separated feature list, dropping blank entries.
func SplitFeatures(text string) []string {
	var features []string
	for _, f := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '，' }) {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return features
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// ParsePrice reads the leading number of the text, e.g. "3999 yuan" is 3999. Anything without a
// leading number, or a negative number, is 0.
func ParsePrice(text string) float64 {
	match := leadingNumber.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// newRecord builds a record from a form the way the add form lays fields out.
func (f Form) newRecord(id, defaultCategory string) phone.Record {
	category := f.Category
	if category == "" {
		category = defaultCategory
	}
	r := phone.Record{
		ID:          id,
		Brand:       f.Brand,
		Model:       f.Model,
		Series:      f.Series,
		Category:    category,
		Processor:   phone.Processor{Brand: f.ProcessorBrand, Model: f.ProcessorModel},
		Memory:      phone.Memory{RAM: f.RAM},
		Display:     phone.Display{Size: f.DisplaySize, Resolution: f.Resolution, RefreshRate: f.RefreshRate},
		Camera:      phone.Camera{Front: f.FrontCamera},
		Battery:     phone.Battery{Capacity: f.BatteryCapacity},
		Price:       phone.Price{Start: phone.FlatPrice(ParsePrice(f.StartPrice)), Currency: phone.DefaultCurrency},
		ReleaseDate: f.ReleaseDate,
		Features:    SplitFeatures(f.Features),
		Description: f.Description,
	}
	if f.Storage != "" {
		r.Memory.Storage = phone.StorageText(f.Storage)
	}
	if f.RearCamera != "" {
		r.Camera.Rear = phone.RearCameraText(f.RearCamera)
	}
	if f.Charging != "" {
		r.Battery.Charging = phone.ChargingText(f.Charging)
	}
	return r
}

// mergeInto applies the non-blank fields of the form over an existing record. Each group keeps
// the sub-fields the form leaves blank.
func (f Form) mergeInto(existing phone.Record) phone.Record {
	r := existing.Clone()
	set := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}

	set(&r.Brand, f.Brand)
	set(&r.Model, f.Model)
	set(&r.Series, f.Series)
	set(&r.Category, f.Category)
	set(&r.Processor.Brand, f.ProcessorBrand)
	set(&r.Processor.Model, f.ProcessorModel)
	set(&r.Memory.RAM, f.RAM)
	set(&r.Display.Size, f.DisplaySize)
	set(&r.Display.Resolution, f.Resolution)
	set(&r.Display.RefreshRate, f.RefreshRate)
	set(&r.Camera.Front, f.FrontCamera)
	set(&r.Battery.Capacity, f.BatteryCapacity)
	set(&r.ReleaseDate, f.ReleaseDate)
	set(&r.Description, f.Description)

	if f.Storage != "" {
		r.Memory.Storage = phone.StorageText(f.Storage)
	}
	if f.RearCamera != "" {
		r.Camera.Rear = phone.RearCameraText(f.RearCamera)
	}
	if f.Charging != "" {
		r.Battery.Charging = phone.ChargingText(f.Charging)
	}
	if f.StartPrice != "" {
		r.Price.Start = phone.FlatPrice(ParsePrice(f.StartPrice))
		if r.Price.Currency == "" {
			r.Price.Currency = phone.DefaultCurrency
		}
	}
	if features := SplitFeatures(f.Features); len(features) > 0 {
		r.Features = features
	}
	return r
}

type formValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newFormValidator() (*formValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &formValidator{validate: validate, translator: trans}, nil
}

func (v *formValidator) check(form Form) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct > %w", err)
	}

	result := &ValidationError{}
	for _, e := range validationErrors {
		result.Fields = append(result.Fields, FieldError{
			Field:   e.Field(),
			Message: e.Translate(v.translator),
		})
	}
	return result
}
