package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"chanitec_backend/internal/quotes/transport"
)

func sampleQuote() transport.QuoteAggregate {
	return transport.QuoteAggregate{
		Quote: transport.Quote{
			ID:              "8f1d3c2a-0000-4000-8000-000000000001",
			ClientName:      "Acme",
			SiteName:        "Site1",
			Object:          "HVAC",
			Date:            "2024-01-01",
			TotalSuppliesHT: 1000,
			TotalLaborHT:    500,
			TotalHT:         1500,
			TVA:             20,
			TotalTTC:        1800,
		},
		SupplyItems: []transport.SupplyItem{{Description: "Pump", Quantity: 2, PriceEuro: 100}},
		LaborItems:  []transport.LaborItem{{Description: "Install", NbTechnicians: 1, NbHours: 8, WeekendMultiplier: 1, PriceEuro: 50}},
	}
}

func TestGenerateQuotePDF(t *testing.T) {
	doc, err := GenerateQuotePDF(QuotePDFData{
		CompanyName: "Chanitec",
		Quote:       sampleQuote(),
		GeneratedAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got %q", doc[:min(len(doc), 8)])
	}
}

func TestReferencePrefersConfirmedNumber(t *testing.T) {
	data := QuotePDFData{Quote: sampleQuote()}
	if data.Reference() != data.Quote.ID {
		t.Fatalf("expected quote id, got %s", data.Reference())
	}

	ref := "CH-2024-001"
	data.Quote.NumberChanitec = &ref
	if data.Reference() != ref {
		t.Fatalf("expected %s, got %s", ref, data.Reference())
	}
}

func TestFormatting(t *testing.T) {
	if got := formatAmount(1800.5); !strings.HasSuffix(got, ",50 €") {
		t.Fatalf("expected French decimal separator, got %q", got)
	}
	if got := formatNumber(8); got != "8" {
		t.Fatalf("expected 8, got %q", got)
	}
	if got := formatDate("2024-02-15"); got != "15/02/2024" {
		t.Fatalf("expected 15/02/2024, got %q", got)
	}
	if got := formatDate("not a date"); got != "not a date" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
