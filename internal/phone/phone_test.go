package phone

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want string
	}{
		{"+5511987654321", "5511987654321"},
		{"  +5511987654321  ", "5511987654321"},
		{"5511987654321", "5511987654321"},
		{" 14155552671 ", "14155552671"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"+5511987654321", " 555195357522", "14155552671"} {
		once := Normalize(raw)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", raw, twice, once)
		}
	}
}

func TestVariationsBrazilianNinthDigitInsertion(t *testing.T) {
	t.Parallel()
	got := Variations("555195357522")
	want := []string{"555195357522", "+555195357522", "5551995357522", "+5551995357522"}
	assertSameOrder(t, got, want)
}

func TestVariationsBrazilianNinthDigitRemoval(t *testing.T) {
	t.Parallel()
	got := Variations("5551995357522")
	want := []string{"5551995357522", "+5551995357522", "555195357522", "+555195357522"}
	assertSameOrder(t, got, want)
}

func TestVariationsExactlyOneThirteenDigitForm(t *testing.T) {
	t.Parallel()
	got := Variations("555195357522")
	var thirteen []string
	for _, v := range got {
		trimmed := strings.TrimPrefix(v, "+")
		if len(trimmed) == 13 && !strings.HasPrefix(v, "+") {
			thirteen = append(thirteen, v)
		}
	}
	if len(thirteen) != 1 {
		t.Fatalf("13-digit forms = %v, want exactly one", thirteen)
	}
	// Ninth digit sits right after the 2-digit area code.
	if thirteen[0][4] != '9' {
		t.Fatalf("inserted digit not at position 4: %q", thirteen[0])
	}
}

func TestVariationsNonBrazilian(t *testing.T) {
	t.Parallel()
	got := Variations("14155552671")
	want := []string{"14155552671", "+14155552671"}
	assertSameOrder(t, got, want)
}

func TestVariationsThirteenDigitsWithoutNinthMarker(t *testing.T) {
	t.Parallel()
	// Position 4 is not 9, so no removal variant applies.
	got := Variations("5551885357522")
	want := []string{"5551885357522", "+5551885357522"}
	assertSameOrder(t, got, want)
}

func TestVariationsTwelveDigitLandlineLikeLocal(t *testing.T) {
	t.Parallel()
	// A 12-digit number whose local segment is not 8 digits would not match;
	// all 12-digit "55" numbers have an 8-digit local segment by construction,
	// so the variant is always produced for them.
	got := Variations("551133334444")
	if len(got) != 4 {
		t.Fatalf("Variations = %v, want ninth-digit expansion", got)
	}
}

func TestVariationsNoDuplicates(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"555195357522", "5551995357522", "14155552671"} {
		got := Variations(input)
		seen := map[string]bool{}
		for _, v := range got {
			if seen[v] {
				t.Errorf("Variations(%q) contains duplicate %q", input, v)
			}
			seen[v] = true
		}
		if got[0] != input {
			t.Errorf("Variations(%q) first element = %q, want the input", input, got[0])
		}
	}
}

func assertSameOrder(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}
