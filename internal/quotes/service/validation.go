package service

import (
	"strings"

	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/money"
	"chanitec_backend/platform/validator"
)

const (
	msgMissingFields      = "Missing required fields"
	msgInvalidLaborFields = "Missing or invalid required fields"
	msgPositiveValues     = "Numeric fields must be positive values"
	msgInvalidDate        = "Invalid date format"
)

// PayloadValidator checks incoming payloads before any store access. The
// falsy-as-missing rule for quote totals and rates lives behind it, so a
// change there touches no caller.
type PayloadValidator interface {
	ValidateQuote(in transport.QuoteInput) error
	ValidateSupplyItem(quoteID string, in transport.SupplyItemInput) error
	ValidateLaborItem(in transport.LaborItemInput) error
	ValidateReminder(req transport.ReminderRequest) error
	ValidateConfirm(req transport.ConfirmRequest) error
}

// TagValidator implements PayloadValidator with the DTO validate tags.
type TagValidator struct {
	v *validator.Validator
}

// NewPayloadValidator creates a TagValidator.
func NewPayloadValidator(v *validator.Validator) *TagValidator {
	return &TagValidator{v: v}
}

// ValidateQuote checks the header fields and every nested labor item.
func (t *TagValidator) ValidateQuote(in transport.QuoteInput) error {
	err := t.v.Struct(in)
	if err == nil {
		for _, item := range in.LaborItems {
			if err := checkRoundedLabor(item); err != nil {
				return err
			}
		}
		return nil
	}
	failure, ok := validator.FirstFailure(err)
	if !ok {
		return apperr.Validation(msgMissingFields).WithDetails(transport.ValidationDetails{Required: transport.RequiredQuoteFields})
	}
	if strings.Contains(failure.Namespace, "laborItems[") {
		return laborFailure(failure)
	}
	message := msgMissingFields
	if failure.Tag == "calendardate" {
		message = msgInvalidDate
	}
	return apperr.Validation(message).WithDetails(transport.ValidationDetails{
		Required: transport.RequiredQuoteFields,
		Field:    failure.Field,
	})
}

// ValidateSupplyItem checks a standalone supply item and its owning quote id.
func (t *TagValidator) ValidateSupplyItem(quoteID string, in transport.SupplyItemInput) error {
	details := transport.ValidationDetails{Required: transport.RequiredSupplyFields}
	if strings.TrimSpace(quoteID) == "" {
		details.Field = "quote_id"
		return apperr.Validation(msgMissingFields).WithDetails(details)
	}
	if err := t.v.Struct(in); err != nil {
		if failure, ok := validator.FirstFailure(err); ok {
			details.Field = failure.Field
		}
		return apperr.Validation(msgMissingFields).WithDetails(details)
	}
	return nil
}

// ValidateLaborItem checks presence and strict positivity.
func (t *TagValidator) ValidateLaborItem(in transport.LaborItemInput) error {
	err := t.v.Struct(in)
	if err == nil {
		return checkRoundedLabor(in)
	}
	failure, ok := validator.FirstFailure(err)
	if !ok {
		return apperr.Validation(msgInvalidLaborFields).WithDetails(transport.ValidationDetails{Required: transport.RequiredLaborFields})
	}
	return laborFailure(failure)
}

// ValidateReminder checks the reminder date parses as a calendar date.
func (t *TagValidator) ValidateReminder(req transport.ReminderRequest) error {
	if err := t.v.Struct(req); err != nil {
		return apperr.Validation(msgInvalidDate).WithDetails(transport.ValidationDetails{
			Required: []string{"reminderDate"},
			Field:    "reminderDate",
		})
	}
	return nil
}

// ValidateConfirm checks the flag is present and the reference is non-empty.
func (t *TagValidator) ValidateConfirm(req transport.ConfirmRequest) error {
	if err := t.v.Struct(req); err != nil {
		details := transport.ValidationDetails{Required: []string{"confirmed", "number_chanitec"}}
		if failure, ok := validator.FirstFailure(err); ok {
			details.Field = failure.Field
		}
		return apperr.Validation(msgMissingFields).WithDetails(details)
	}
	if strings.TrimSpace(req.NumberChanitec) == "" {
		return apperr.Validation(msgMissingFields).WithDetails(transport.ValidationDetails{
			Required: []string{"confirmed", "number_chanitec"},
			Field:    "number_chanitec",
		})
	}
	return nil
}

// checkRoundedLabor rejects values that are positive but round to 0.00,
// the value the two-place labor columns would store.
func checkRoundedLabor(in transport.LaborItemInput) error {
	values := []struct {
		field string
		value float64
	}{
		{"nbHours", in.NbHours},
		{"weekendMultiplier", in.WeekendMultiplier},
		{"priceEuro", in.PriceEuro},
	}
	for _, v := range values {
		if money.Round2(v.value) <= 0 {
			return laborFailure(validator.Failure{Field: v.field, Tag: "gt"})
		}
	}
	return nil
}

func laborFailure(failure validator.Failure) error {
	message := msgInvalidLaborFields
	if failure.Tag == "gt" {
		message = msgPositiveValues
	}
	return apperr.Validation(message).WithDetails(transport.ValidationDetails{
		Required: transport.RequiredLaborFields,
		Field:    failure.Field,
	})
}

var _ PayloadValidator = (*TagValidator)(nil)
