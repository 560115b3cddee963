package transport

import (
	"time"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// QuoteInput is the external representation accepted by create and update.
// The required set doubles as the quote header validator: go-playground treats
// a numeric zero as missing for `required`, so a zero rate or total is rejected.
type QuoteInput struct {
	ID                 string            `json:"id"`
	ClientName         string            `json:"clientName" validate:"required"`
	SiteName           string            `json:"siteName" validate:"required"`
	Object             string            `json:"object"`
	Date               string            `json:"date" validate:"required,calendardate"`
	SupplyDescription  string            `json:"supplyDescription"`
	LaborDescription   string            `json:"laborDescription"`
	SupplyExchangeRate float64           `json:"supplyExchangeRate" validate:"required"`
	SupplyMarginRate   float64           `json:"supplyMarginRate" validate:"required"`
	LaborExchangeRate  float64           `json:"laborExchangeRate" validate:"required"`
	LaborMarginRate    float64           `json:"laborMarginRate" validate:"required"`
	TotalSuppliesHT    float64           `json:"totalSuppliesHT" validate:"required"`
	TotalLaborHT       float64           `json:"totalLaborHT" validate:"required"`
	TotalHT            float64           `json:"totalHT" validate:"required"`
	TVA                float64           `json:"tva" validate:"required"`
	TotalTTC           float64           `json:"totalTTC" validate:"required"`
	Remise             *float64          `json:"remise"`
	ParentID           *string           `json:"parentId"`
	SplitID            *string           `json:"splitId"`
	SupplyItems        []SupplyItemInput `json:"supplyItems"`
	LaborItems         []LaborItemInput  `json:"laborItems" validate:"omitempty,dive"`
}

// RequiredQuoteFields lists the header fields the validator enforces, in the
// order they are reported.
var RequiredQuoteFields = []string{
	"clientName", "siteName", "date",
	"supplyExchangeRate", "supplyMarginRate", "laborExchangeRate", "laborMarginRate",
	"totalSuppliesHT", "totalLaborHT", "totalHT", "tva", "totalTTC",
}

// SupplyItemInput is a supply line, nested in a quote or posted on its own.
type SupplyItemInput struct {
	Description      string   `json:"description" validate:"required"`
	Quantity         float64  `json:"quantity" validate:"required"`
	PriceEuro        float64  `json:"priceEuro" validate:"required"`
	PriceDollar      *float64 `json:"priceDollar"`
	UnitPriceDollar  *float64 `json:"unitPriceDollar"`
	TotalPriceDollar *float64 `json:"totalPriceDollar"`
}

// RequiredSupplyFields lists the fields a standalone supply item must carry.
var RequiredSupplyFields = []string{"quote_id", "description", "quantity", "priceEuro"}

// LaborItemInput is a labor line. Every numeric field it requires must be strictly positive.
type LaborItemInput struct {
	Description       string   `json:"description" validate:"required"`
	NbTechnicians     int      `json:"nbTechnicians" validate:"required,gt=0"`
	NbHours           float64  `json:"nbHours" validate:"required,gt=0"`
	WeekendMultiplier float64  `json:"weekendMultiplier" validate:"required,gt=0"`
	PriceEuro         float64  `json:"priceEuro" validate:"required,gt=0"`
	PriceDollar       *float64 `json:"priceDollar"`
	UnitPriceDollar   *float64 `json:"unitPriceDollar"`
	TotalPriceDollar  *float64 `json:"totalPriceDollar"`
}

// RequiredLaborFields lists the fields a labor item must carry.
var RequiredLaborFields = []string{"description", "nbTechnicians", "nbHours", "weekendMultiplier", "priceEuro"}

// ReminderRequest is the body of PATCH /quotes/:id/reminder.
type ReminderRequest struct {
	ReminderDate string `json:"reminderDate" validate:"required,calendardate"`
}

// ConfirmRequest is the body of PATCH /quotes/:id/confirm. The external
// reference keeps its historical snake_case name.
type ConfirmRequest struct {
	Confirmed      *bool  `json:"confirmed" validate:"required"`
	NumberChanitec string `json:"number_chanitec" validate:"required"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// Quote is the external representation of a quote header.
type Quote struct {
	ID                 string    `json:"id"`
	ClientName         string    `json:"clientName"`
	SiteName           string    `json:"siteName"`
	Object             string    `json:"object"`
	Date               string    `json:"date"`
	SupplyDescription  string    `json:"supplyDescription"`
	LaborDescription   string    `json:"laborDescription"`
	SupplyExchangeRate float64   `json:"supplyExchangeRate"`
	SupplyMarginRate   float64   `json:"supplyMarginRate"`
	LaborExchangeRate  float64   `json:"laborExchangeRate"`
	LaborMarginRate    float64   `json:"laborMarginRate"`
	TotalSuppliesHT    float64   `json:"totalSuppliesHT"`
	TotalLaborHT       float64   `json:"totalLaborHT"`
	TotalHT            float64   `json:"totalHT"`
	TVA                float64   `json:"tva"`
	TotalTTC           float64   `json:"totalTTC"`
	Remise             float64   `json:"remise"`
	ParentID           *string   `json:"parentId"`
	SplitID            *string   `json:"splitId"`
	Confirmed          bool      `json:"confirmed"`
	NumberChanitec     *string   `json:"number_chanitec"`
	ReminderDate       *string   `json:"reminderDate"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// QuoteAggregate is a quote header with its child items.
type QuoteAggregate struct {
	Quote
	SupplyItems []SupplyItem `json:"supplyItems"`
	LaborItems  []LaborItem  `json:"laborItems"`
}

// SupplyItem is the external representation of a supply line.
type SupplyItem struct {
	ID               string    `json:"id"`
	QuoteID          string    `json:"quoteId"`
	Description      string    `json:"description"`
	Quantity         float64   `json:"quantity"`
	PriceEuro        float64   `json:"priceEuro"`
	PriceDollar      *float64  `json:"priceDollar"`
	UnitPriceDollar  *float64  `json:"unitPriceDollar"`
	TotalPriceDollar *float64  `json:"totalPriceDollar"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LaborItem is the external representation of a labor line.
type LaborItem struct {
	ID                string    `json:"id"`
	QuoteID           string    `json:"quoteId"`
	Description       string    `json:"description"`
	NbTechnicians     int       `json:"nbTechnicians"`
	NbHours           float64   `json:"nbHours"`
	WeekendMultiplier float64   `json:"weekendMultiplier"`
	PriceEuro         float64   `json:"priceEuro"`
	PriceDollar       *float64  `json:"priceDollar"`
	UnitPriceDollar   *float64  `json:"unitPriceDollar"`
	TotalPriceDollar  *float64  `json:"totalPriceDollar"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ConfirmResponse acknowledges a confirmation without returning the quote.
type ConfirmResponse struct {
	Message        string `json:"message"`
	ID             string `json:"id"`
	Confirmed      bool   `json:"confirmed"`
	NumberChanitec string `json:"number_chanitec"`
}

// DuplicateQuoteResponse is returned when a create matches an existing quote.
type DuplicateQuoteResponse struct {
	Error           string `json:"error"`
	ExistingQuoteID string `json:"existingQuoteId"`
}

// ValidationDetails is attached to validation failures.
type ValidationDetails struct {
	Required []string `json:"required"`
	Field    string   `json:"field,omitempty"`
}
