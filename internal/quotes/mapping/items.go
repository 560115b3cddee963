package mapping

import (
	"chanitec_backend/internal/quotes/repository"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/money"
)

// SupplyItemToExternal maps a stored supply line.
func SupplyItemToExternal(item repository.SupplyItem) transport.SupplyItem {
	return transport.SupplyItem{
		ID:               item.ID,
		QuoteID:          item.QuoteID,
		Description:      item.Description,
		Quantity:         money.ParseText(item.Quantity),
		PriceEuro:        money.ParseText(item.PriceEuro),
		PriceDollar:      money.ParseTextPtr(item.PriceDollar),
		UnitPriceDollar:  money.ParseTextPtr(item.UnitPriceDollar),
		TotalPriceDollar: money.ParseTextPtr(item.TotalPriceDollar),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// SupplyItemToStorage is the inverse of SupplyItemToExternal.
func SupplyItemToStorage(item transport.SupplyItem) repository.SupplyItem {
	return repository.SupplyItem{
		ID:               item.ID,
		QuoteID:          item.QuoteID,
		Description:      item.Description,
		Quantity:         money.FormatText(item.Quantity, money.AmountPlaces),
		PriceEuro:        money.FormatText(item.PriceEuro, money.AmountPlaces),
		PriceDollar:      money.FormatTextPtr(item.PriceDollar, money.AmountPlaces),
		UnitPriceDollar:  money.FormatTextPtr(item.UnitPriceDollar, money.AmountPlaces),
		TotalPriceDollar: money.FormatTextPtr(item.TotalPriceDollar, money.AmountPlaces),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// SupplyItemFromInput builds the row for a new or updated supply line.
func SupplyItemFromInput(id, quoteID string, in transport.SupplyItemInput) repository.SupplyItem {
	return SupplyItemToStorage(transport.SupplyItem{
		ID:               id,
		QuoteID:          quoteID,
		Description:      in.Description,
		Quantity:         in.Quantity,
		PriceEuro:        in.PriceEuro,
		PriceDollar:      in.PriceDollar,
		UnitPriceDollar:  in.UnitPriceDollar,
		TotalPriceDollar: in.TotalPriceDollar,
	})
}

// SupplyItemsToExternal maps a list of supply lines.
func SupplyItemsToExternal(items []repository.SupplyItem) []transport.SupplyItem {
	out := make([]transport.SupplyItem, len(items))
	for i, item := range items {
		out[i] = SupplyItemToExternal(item)
	}
	return out
}

// LaborItemToExternal maps a stored labor line.
func LaborItemToExternal(item repository.LaborItem) transport.LaborItem {
	return transport.LaborItem{
		ID:                item.ID,
		QuoteID:           item.QuoteID,
		Description:       item.Description,
		NbTechnicians:     int(item.NbTechnicians),
		NbHours:           money.ParseText(item.NbHours),
		WeekendMultiplier: money.ParseText(item.WeekendMultiplier),
		PriceEuro:         money.ParseText(item.PriceEuro),
		PriceDollar:       money.ParseTextPtr(item.PriceDollar),
		UnitPriceDollar:   money.ParseTextPtr(item.UnitPriceDollar),
		TotalPriceDollar:  money.ParseTextPtr(item.TotalPriceDollar),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// LaborItemToStorage is the inverse of LaborItemToExternal. Decimals are
// rounded to two places, the scale of every labor column.
func LaborItemToStorage(item transport.LaborItem) repository.LaborItem {
	return repository.LaborItem{
		ID:                item.ID,
		QuoteID:           item.QuoteID,
		Description:       item.Description,
		NbTechnicians:     int32(item.NbTechnicians),
		NbHours:           money.FormatText(item.NbHours, money.AmountPlaces),
		WeekendMultiplier: money.FormatText(item.WeekendMultiplier, money.AmountPlaces),
		PriceEuro:         money.FormatText(item.PriceEuro, money.AmountPlaces),
		PriceDollar:       money.FormatTextPtr(item.PriceDollar, money.AmountPlaces),
		UnitPriceDollar:   money.FormatTextPtr(item.UnitPriceDollar, money.AmountPlaces),
		TotalPriceDollar:  money.FormatTextPtr(item.TotalPriceDollar, money.AmountPlaces),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// LaborItemFromInput builds the row for a new or updated labor line.
func LaborItemFromInput(id, quoteID string, in transport.LaborItemInput) repository.LaborItem {
	return LaborItemToStorage(transport.LaborItem{
		ID:                id,
		QuoteID:           quoteID,
		Description:       in.Description,
		NbTechnicians:     in.NbTechnicians,
		NbHours:           in.NbHours,
		WeekendMultiplier: in.WeekendMultiplier,
		PriceEuro:         in.PriceEuro,
		PriceDollar:       in.PriceDollar,
		UnitPriceDollar:   in.UnitPriceDollar,
		TotalPriceDollar:  in.TotalPriceDollar,
	})
}

// LaborItemsToExternal maps a list of labor lines.
func LaborItemsToExternal(items []repository.LaborItem) []transport.LaborItem {
	out := make([]transport.LaborItem, len(items))
	for i, item := range items {
		out[i] = LaborItemToExternal(item)
	}
	return out
}
