package model

import "testing"

func TestParsePeriodType(t *testing.T) {
	for _, p := range AllPeriodTypes() {
		got, err := ParsePeriodType(string(p))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		if got != p {
			t.Errorf("expected %s, got %s", p, got)
		}
	}
	for _, bad := range []string{"", "Hour", "3month", "decade"} {
		if _, err := ParsePeriodType(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestPairString(t *testing.T) {
	p := Pair{From: Currency{Code: "BTC"}, To: Currency{Code: "USD"}}
	if p.String() != "BTC/USD" {
		t.Errorf("expected BTC/USD, got %s", p.String())
	}
}
