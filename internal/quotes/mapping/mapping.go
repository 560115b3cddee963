// Package mapping translates quote rows between the storage representation
// (snake_case columns, text-decimal numerics) and the external camelCase one.
// Every function here is pure.
package mapping

import (
	"strings"

	"chanitec_backend/internal/quotes/repository"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/money"
	"chanitec_backend/platform/validator"
)

// ToExternal maps a stored quote header to its external representation.
func ToExternal(q repository.Quote) transport.Quote {
	return transport.Quote{
		ID:                 q.ID,
		ClientName:         q.ClientName,
		SiteName:           q.SiteName,
		Object:             q.Object,
		Date:               q.Date,
		SupplyDescription:  q.SupplyDescription,
		LaborDescription:   q.LaborDescription,
		SupplyExchangeRate: money.ParseText(q.SupplyExchangeRate),
		SupplyMarginRate:   money.ParseText(q.SupplyMarginRate),
		LaborExchangeRate:  money.ParseText(q.LaborExchangeRate),
		LaborMarginRate:    money.ParseText(q.LaborMarginRate),
		TotalSuppliesHT:    money.ParseText(q.TotalSuppliesHT),
		TotalLaborHT:       money.ParseText(q.TotalLaborHT),
		TotalHT:            money.ParseText(q.TotalHT),
		TVA:                money.ParseText(q.TVA),
		TotalTTC:           money.ParseText(q.TotalTTC),
		Remise:             money.ParseText(q.Remise),
		ParentID:           q.ParentID,
		SplitID:            q.SplitID,
		Confirmed:          q.Confirmed,
		NumberChanitec:     q.NumberChanitec,
		ReminderDate:       q.ReminderDate,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

// ToStorage is the inverse of ToExternal. Numerics are rendered at the scale
// of their column, so a row read from the store maps back to itself.
func ToStorage(q transport.Quote) repository.Quote {
	return repository.Quote{
		ID:                 q.ID,
		ClientName:         q.ClientName,
		SiteName:           q.SiteName,
		Object:             q.Object,
		Date:               q.Date,
		SupplyDescription:  q.SupplyDescription,
		LaborDescription:   q.LaborDescription,
		SupplyExchangeRate: money.FormatText(q.SupplyExchangeRate, money.RatePlaces),
		SupplyMarginRate:   money.FormatText(q.SupplyMarginRate, money.RatePlaces),
		LaborExchangeRate:  money.FormatText(q.LaborExchangeRate, money.RatePlaces),
		LaborMarginRate:    money.FormatText(q.LaborMarginRate, money.RatePlaces),
		TotalSuppliesHT:    money.FormatText(q.TotalSuppliesHT, money.AmountPlaces),
		TotalLaborHT:       money.FormatText(q.TotalLaborHT, money.AmountPlaces),
		TotalHT:            money.FormatText(q.TotalHT, money.AmountPlaces),
		TVA:                money.FormatText(q.TVA, money.AmountPlaces),
		TotalTTC:           money.FormatText(q.TotalTTC, money.AmountPlaces),
		Remise:             money.FormatText(q.Remise, money.AmountPlaces),
		ParentID:           q.ParentID,
		SplitID:            q.SplitID,
		Confirmed:          q.Confirmed,
		NumberChanitec:     q.NumberChanitec,
		ReminderDate:       q.ReminderDate,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

// FromInput builds the row to write for a create or update payload.
// Defaults: remise 0, no parent, no split. The date is normalized to YYYY-MM-DD.
func FromInput(in transport.QuoteInput) repository.Quote {
	remise := 0.0
	if in.Remise != nil {
		remise = *in.Remise
	}
	date, ok := validator.ParseDate(in.Date)
	if !ok {
		date = strings.TrimSpace(in.Date)
	}

	return ToStorage(transport.Quote{
		ID:                 strings.TrimSpace(in.ID),
		ClientName:         in.ClientName,
		SiteName:           in.SiteName,
		Object:             in.Object,
		Date:               date,
		SupplyDescription:  in.SupplyDescription,
		LaborDescription:   in.LaborDescription,
		SupplyExchangeRate: in.SupplyExchangeRate,
		SupplyMarginRate:   in.SupplyMarginRate,
		LaborExchangeRate:  in.LaborExchangeRate,
		LaborMarginRate:    in.LaborMarginRate,
		TotalSuppliesHT:    in.TotalSuppliesHT,
		TotalLaborHT:       in.TotalLaborHT,
		TotalHT:            in.TotalHT,
		TVA:                in.TVA,
		TotalTTC:           in.TotalTTC,
		Remise:             remise,
		ParentID:           nonEmpty(in.ParentID),
		SplitID:            nonEmpty(in.SplitID),
	})
}

// QuotesToExternal maps a list of headers.
func QuotesToExternal(rows []repository.Quote) []transport.Quote {
	out := make([]transport.Quote, len(rows))
	for i, q := range rows {
		out[i] = ToExternal(q)
	}
	return out
}

// AggregateToExternal composes a header with its child rows.
func AggregateToExternal(q repository.Quote, supplies []repository.SupplyItem, labor []repository.LaborItem) transport.QuoteAggregate {
	return transport.QuoteAggregate{
		Quote:       ToExternal(q),
		SupplyItems: SupplyItemsToExternal(supplies),
		LaborItems:  LaborItemsToExternal(labor),
	}
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
