package repository

import (
	"context"
	"time"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Quote is the database model for a quote header. NUMERIC and DATE columns
// are carried as the text Postgres renders for them.
type Quote struct {
	ID                 string
	ClientName         string
	SiteName           string
	Object             string
	Date               string
	SupplyDescription  string
	LaborDescription   string
	SupplyExchangeRate string
	SupplyMarginRate   string
	LaborExchangeRate  string
	LaborMarginRate    string
	TotalSuppliesHT    string
	TotalLaborHT       string
	TotalHT            string
	TVA                string
	TotalTTC           string
	Remise             string
	ParentID           *string
	SplitID            *string
	Confirmed          bool
	NumberChanitec     *string
	ReminderDate       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SupplyItem is the database model for a supply line.
type SupplyItem struct {
	ID               string
	QuoteID          string
	Description      string
	Quantity         string
	PriceEuro        string
	PriceDollar      *string
	UnitPriceDollar  *string
	TotalPriceDollar *string
	Seq              int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LaborItem is the database model for a labor line.
type LaborItem struct {
	ID                string
	QuoteID           string
	Description       string
	NbTechnicians     int32
	NbHours           string
	WeekendMultiplier string
	PriceEuro         string
	PriceDollar       *string
	UnitPriceDollar   *string
	TotalPriceDollar  *string
	Seq               int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ── Interfaces ────────────────────────────────────────────────────────────────

// Store is every statement the quote aggregate issues. A Store is bound either
// to the pool or to one transaction; callers never see which.
type Store interface {
	// FindDuplicate returns the id of a quote whose business-field tuple
	// matches q, or "" when there is none.
	FindDuplicate(ctx context.Context, q Quote) (string, error)
	InsertQuote(ctx context.Context, q Quote) error
	InsertSupplyItem(ctx context.Context, item SupplyItem) error
	InsertLaborItem(ctx context.Context, item LaborItem) error

	GetByID(ctx context.Context, id string) (Quote, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Quote, error)
	UpdateHeader(ctx context.Context, q Quote) error
	SetReminderDate(ctx context.Context, id, date string) error
	Confirm(ctx context.Context, id string, confirmed bool, numberChanitec string) error
	Delete(ctx context.Context, id string) error

	ListSupplyItems(ctx context.Context, quoteID string) ([]SupplyItem, error)
	GetSupplyItem(ctx context.Context, id string) (SupplyItem, error)
	UpdateSupplyItem(ctx context.Context, item SupplyItem) error
	DeleteSupplyItem(ctx context.Context, id string) error

	ListLaborItems(ctx context.Context, quoteID string) ([]LaborItem, error)
	GetLaborItem(ctx context.Context, id string) (LaborItem, error)
	UpdateLaborItem(ctx context.Context, item LaborItem) error
	DeleteLaborItem(ctx context.Context, id string) error
}

// Repository is a pool-bound Store that can open transactions.
type Repository interface {
	Store
	// WithTx runs fn with a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
