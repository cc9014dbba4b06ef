package source

import "testing"

func TestSafeIntHandlesMissingValues(t *testing.T) {
	cases := []struct {
		in      any
		want    int
		wantOK  bool
	}{
		{5, 5, true},
		{int64(7), 7, true},
		{float64(3.9), 3, true},
		{"12", 12, true},
		{"", 0, false},
		{"--", 0, false},
		{nil, 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := SafeInt(c.in)
		if got != c.want || ok != c.wantOK {
			t.Errorf("SafeInt(%#v) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestSafeFloatHandlesMissingValues(t *testing.T) {
	cases := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{3.14, 3.14, true},
		{"0.925", 0.925, true},
		{"", 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := SafeFloat(c.in)
		if got != c.want || ok != c.wantOK {
			t.Errorf("SafeFloat(%#v) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestParseTimeMMSSRoundTrip(t *testing.T) {
	secs, ok := ParseTimeMMSS("18:32")
	if !ok || secs != 18*60+32 {
		t.Fatalf("ParseTimeMMSS(18:32) = (%d, %v)", secs, ok)
	}
	if FormatMMSS(secs) != "18:32" {
		t.Errorf("FormatMMSS round-trip = %s, want 18:32", FormatMMSS(secs))
	}
}

func TestParseTimeMMSSRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "--", "18", "18:99", "ab:cd"} {
		if _, ok := ParseTimeMMSS(s); ok {
			t.Errorf("ParseTimeMMSS(%q) should fail", s)
		}
	}
}

func TestNormalizeNameStripsPunctuation(t *testing.T) {
	got := NormalizeName("St. Louis, Martin")
	if got != "st louis martin" {
		t.Errorf("NormalizeName = %q", got)
	}
}

func TestNamesMatchExact(t *testing.T) {
	if !NamesMatch("Connor McDavid", "Connor McDavid") {
		t.Error("expected exact match")
	}
}

func TestNamesMatchNickname(t *testing.T) {
	if !NamesMatch("Mike Smith", "Michael Smith") {
		t.Error("expected nickname match")
	}
}

func TestNamesMatchInitial(t *testing.T) {
	if !NamesMatch("J. Smith", "John Smith") {
		t.Error("expected initial match")
	}
}

func TestNamesMatchDifferentSurnameFails(t *testing.T) {
	if NamesMatch("Mike Smith", "Mike Jones") {
		t.Error("expected no match for different surnames")
	}
}

func TestSimilarityRatioIdentical(t *testing.T) {
	if r := SimilarityRatio("hello", "hello"); r != 1 {
		t.Errorf("SimilarityRatio identical = %v, want 1", r)
	}
}

func TestSimilarityRatioDisjoint(t *testing.T) {
	if r := SimilarityRatio("abc", "xyz"); r != 0 {
		t.Errorf("SimilarityRatio disjoint = %v, want 0", r)
	}
}

func TestSimilarityRatioPartial(t *testing.T) {
	r := SimilarityRatio("connor mcdavid", "conor mcdavid")
	if r < 0.9 {
		t.Errorf("SimilarityRatio near-miss = %v, want >= 0.9", r)
	}
}
