package parser

import "testing"

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Mitarbeiter_ID":      "mitarbeiterid",
		" Gehalt Brutto.Jahr": "gehaltbruttojahr",
		"Aktuelle-Position":   "aktuelleposition",
		"Wochen\tStunden\n":   "wochenstunden",
		"":                    "",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("NormalizeColumnName(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestExtractNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"45000", 45000, true},
		{"45000 €", 45000, true},
		{"EUR 52000.50", 52000.5, true},
		{"k.A.", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
	}
	for _, c := range cases {
		got, ok := ExtractNumber(c.in)
		if ok != c.valid || got != c.want {
			t.Fatalf("ExtractNumber(%q)=(%v,%v), want (%v,%v)", c.in, got, ok, c.want, c.valid)
		}
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	if v, ok := ParseNumber(" 1980 "); !ok || v != 1980 {
		t.Fatalf("ParseNumber(1980)=(%v,%v)", v, ok)
	}
	if _, ok := ParseNumber("neunzehnhundert"); ok {
		t.Fatalf("expected non-numeric to be invalid")
	}
	for _, cell := range []string{"nan", "NaN", "inf", "-inf", "+Inf", "Infinity", "1e400"} {
		if v, ok := ParseNumber(cell); ok {
			t.Fatalf("ParseNumber(%q)=%v, want invalid", cell, v)
		}
	}
}

func TestContainsAny(t *testing.T) {
	t.Parallel()

	if !ContainsAny("teilzeit 50%", []string{"part", "teil"}) {
		t.Fatalf("expected keyword hit")
	}
	if ContainsAny("vollzeit", []string{"part", "teil"}) {
		t.Fatalf("expected no keyword hit")
	}
}

func TestIsBlankRow(t *testing.T) {
	t.Parallel()

	if !IsBlankRow([]string{"", "  ", "\t"}) {
		t.Fatalf("expected blank row")
	}
	if IsBlankRow([]string{"", "x"}) {
		t.Fatalf("expected non-blank row")
	}
}
