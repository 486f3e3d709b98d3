package types

import "testing"

func TestYearSetRoundTrip(t *testing.T) {
	set := YearSet{2018, 2020, 2019}

	val, err := set.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var scanned YearSet
	if err := scanned.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(scanned) != 3 || scanned[0] != 2018 {
		t.Fatalf("unexpected round trip result: %v", scanned)
	}
}

func TestYearSetScanNilAndEmpty(t *testing.T) {
	var set YearSet
	if err := set.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}

	if err := set.Scan([]byte("[]")); err != nil {
		t.Fatalf("scan empty: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
}

func TestYearSetContains(t *testing.T) {
	set := YearSet{2019, 2021}
	if !set.Contains(2021) {
		t.Fatal("expected 2021 to be present")
	}
	if set.Contains(2020) {
		t.Fatal("did not expect 2020")
	}
}

func TestYearSetSortedDesc(t *testing.T) {
	set := YearSet{2018, 2021, 2019}
	sorted := set.SortedDesc()
	if sorted[0] != 2021 || sorted[2] != 2018 {
		t.Fatalf("unexpected order: %v", sorted)
	}
	// original untouched
	if set[0] != 2018 {
		t.Fatalf("source mutated: %v", set)
	}
}
