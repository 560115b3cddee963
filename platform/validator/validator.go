// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// Accepted layouts for the calendardate rule.
var dateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano}

// New creates a Validator with the shared custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so error details match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("calendardate", isCalendarDate)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Failure describes one broken rule.
type Failure struct {
	// Field is the JSON name of the field.
	Field string
	// Tag is the rule that failed, e.g. "required" or "gt".
	Tag string
	// Namespace is the dotted path from the root struct, e.g. "QuoteInput.laborItems[0].nbHours".
	Namespace string
}

// FirstFailure returns the first rule broken by a struct validation.
func FirstFailure(err error) (Failure, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Failure{}, false
	}
	fe := verrs[0]
	return Failure{Field: fe.Field(), Tag: fe.Tag(), Namespace: fe.Namespace()}, true
}

// FailedFields lists the JSON names of every field that failed validation,
// in declaration order. It returns nil for errors that are not validation errors.
func FailedFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// ParseDate parses any layout accepted by the calendardate rule and returns
// the calendar day in YYYY-MM-DD form.
func ParseDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	return "", false
}

func isCalendarDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return false
	}
	_, ok := ParseDate(field.String())
	return ok
}
