package coupon

import "testing"

func TestParseAndLookup(t *testing.T) {
	table, err := Parse("SAVE10:1000, fresh5:500")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 codes, got %d", table.Len())
	}
	bps, ok := table.RateBps("save10")
	if !ok || bps != 1000 {
		t.Fatalf("expected SAVE10 at 1000 bps, got %d ok=%v", bps, ok)
	}
	bps, ok = table.RateBps(" FRESH5 ")
	if !ok || bps != 500 {
		t.Fatalf("expected FRESH5 at 500 bps, got %d ok=%v", bps, ok)
	}
	if _, ok := table.RateBps("NOPE"); ok {
		t.Fatal("unknown code must not resolve")
	}
}

func TestParseEmptySpec(t *testing.T) {
	table, err := Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d", table.Len())
	}
}

func TestParseRejectsMalformedEntries(t *testing.T) {
	for _, spec := range []string{"SAVE10", ":1000", "SAVE10:abc", "SAVE10:0", "SAVE10:10000", "SAVE10:-5"} {
		if _, err := Parse(spec); err == nil {
			t.Fatalf("expected error for %q", spec)
		}
	}
}
