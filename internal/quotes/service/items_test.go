package service

import (
	"context"
	"testing"

	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/apperr"
)

func TestCreateSupplyItem(t *testing.T) {
	svc, _, _, _ := newTestService()
	quote, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := svc.CreateSupplyItem(context.Background(), quote.ID, transport.SupplyItemInput{
		Description: "Valve",
		Quantity:    3,
		PriceEuro:   12.5,
		PriceDollar: floatPtr(13.57),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID == "" || item.QuoteID != quote.ID || item.PriceEuro != 12.5 {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.PriceDollar == nil || *item.PriceDollar != 13.57 || item.UnitPriceDollar != nil {
		t.Fatalf("unexpected optional prices %+v", item)
	}

	items, err := svc.ListSupplyItems(context.Background(), quote.ID)
	if err != nil || len(items) != 2 {
		t.Fatalf("expected 2 supply items, got %d (%v)", len(items), err)
	}
}

func TestCreateSupplyItemErrors(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateSupplyItem(context.Background(), "missing", transport.SupplyItemInput{Description: "Valve", Quantity: 1, PriceEuro: 1})
	requireKind(t, err, apperr.KindNotFound)

	_, err = svc.CreateSupplyItem(context.Background(), "", transport.SupplyItemInput{Description: "Valve", Quantity: 1, PriceEuro: 1})
	domainErr := requireKind(t, err, apperr.KindValidation)
	if details := domainErr.Details.(transport.ValidationDetails); details.Field != "quote_id" {
		t.Fatalf("expected quote_id to be reported, got %+v", details)
	}

	_, err = svc.CreateSupplyItem(context.Background(), "q1", transport.SupplyItemInput{Description: "Valve", PriceEuro: 1})
	requireKind(t, err, apperr.KindValidation)
}

func TestUpdateAndDeleteSupplyItem(t *testing.T) {
	svc, _, _, _ := newTestService()
	quote, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	itemID := quote.SupplyItems[0].ID

	updated, err := svc.UpdateSupplyItem(context.Background(), itemID, transport.SupplyItemInput{Description: "Pump XL", Quantity: 1, PriceEuro: 180})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != "Pump XL" || updated.QuoteID != quote.ID {
		t.Fatalf("unexpected update %+v", updated)
	}

	if err := svc.DeleteSupplyItem(context.Background(), itemID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.GetSupplyItem(context.Background(), itemID)
	requireKind(t, err, apperr.KindNotFound)
	requireKind(t, svc.DeleteSupplyItem(context.Background(), itemID), apperr.KindNotFound)
}

func TestCreateLaborItem(t *testing.T) {
	svc, _, _, _ := newTestService()
	quote, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := svc.CreateLaborItem(context.Background(), quote.ID, transport.LaborItemInput{
		Description:       "Commissioning",
		NbTechnicians:     2,
		NbHours:           3.456,
		WeekendMultiplier: 1.5,
		PriceEuro:         60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.NbHours != 3.46 {
		t.Fatalf("expected hours rounded to 3.46, got %v", item.NbHours)
	}

	_, err = svc.CreateLaborItem(context.Background(), quote.ID, transport.LaborItemInput{
		Description: "Commissioning", NbTechnicians: 2, NbHours: -1, WeekendMultiplier: 1, PriceEuro: 60,
	})
	requireKind(t, err, apperr.KindValidation)

	// 0.001 hours would be stored as 0.00.
	_, err = svc.CreateLaborItem(context.Background(), quote.ID, transport.LaborItemInput{
		Description: "Commissioning", NbTechnicians: 2, NbHours: 0.001, WeekendMultiplier: 1, PriceEuro: 60,
	})
	domainErr := requireKind(t, err, apperr.KindValidation)
	if domainErr.Message != "Numeric fields must be positive values" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}

	_, err = svc.CreateLaborItem(context.Background(), "missing", transport.LaborItemInput{
		Description: "Commissioning", NbTechnicians: 2, NbHours: 1, WeekendMultiplier: 1, PriceEuro: 60,
	})
	requireKind(t, err, apperr.KindNotFound)
}

func TestUpdateLaborItemRevalidates(t *testing.T) {
	svc, _, _, _ := newTestService()
	quote, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	itemID := quote.LaborItems[0].ID

	_, err = svc.UpdateLaborItem(context.Background(), itemID, transport.LaborItemInput{Description: "Install", NbTechnicians: 1, NbHours: 0, WeekendMultiplier: 1, PriceEuro: 50})
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.UpdateLaborItem(context.Background(), itemID, transport.LaborItemInput{Description: "Install", NbTechnicians: 1, NbHours: 4, WeekendMultiplier: 1, PriceEuro: 0.004})
	requireKind(t, err, apperr.KindValidation)

	updated, err := svc.UpdateLaborItem(context.Background(), itemID, transport.LaborItemInput{Description: "Install", NbTechnicians: 3, NbHours: 4, WeekendMultiplier: 2, PriceEuro: 55})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.NbTechnicians != 3 || updated.WeekendMultiplier != 2 {
		t.Fatalf("unexpected update %+v", updated)
	}

	_, err = svc.UpdateLaborItem(context.Background(), "missing", transport.LaborItemInput{Description: "Install", NbTechnicians: 3, NbHours: 4, WeekendMultiplier: 2, PriceEuro: 55})
	requireKind(t, err, apperr.KindNotFound)
}
