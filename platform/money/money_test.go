package money

import "testing"

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		8:      8,
		1.005:  1.01,
		2.344:  2.34,
		-1.005: -1.01,
		99.999: 100,
		0.125:  0.13,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestFormatAndParseText(t *testing.T) {
	if got := FormatText(1500, AmountPlaces); got != "1500.00" {
		t.Fatalf("expected 1500.00, got %s", got)
	}
	if got := FormatText(1.08531, RatePlaces); got != "1.0853" {
		t.Fatalf("expected 1.0853, got %s", got)
	}
	if got := ParseText("1800.00"); got != 1800 {
		t.Fatalf("expected 1800, got %v", got)
	}
	if got := ParseText(""); got != 0 {
		t.Fatalf("expected 0 for empty text, got %v", got)
	}
	if ParseTextPtr(nil) != nil {
		t.Fatal("expected nil for NULL column")
	}
	if FormatTextPtr(nil, AmountPlaces) != nil {
		t.Fatal("expected nil for absent value")
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"12.5":    12.5,
		"12,50":   12.5,
		" 1 200 ": 1200,
		"0":       0,
	}
	for in, want := range cases {
		got, err := ParsePrice(in)
		if err != nil {
			t.Fatalf("ParsePrice(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("ParsePrice(%q): expected %v, got %v", in, want, got)
		}
	}

	if _, err := ParsePrice("abc"); err == nil {
		t.Fatal("expected error for non-numeric price")
	}
}
