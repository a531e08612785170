package domain

import "testing"

func TestNormalizeCategoryMembers(t *testing.T) {
	cases := []struct {
		raw  string
		want CategoryKey
	}{
		{"HR_INFO", CategoryHRInfo},
		{"hr_info", CategoryHRInfo},
		{"  Tech_Info  ", CategoryTechInfo},
		{"PERSONAL_INFO", CategoryPersonalInfo},
		{"unknown_x", DefaultCategory},
		{"", DefaultCategory},
		{"HR-INFO", DefaultCategory}, // near-miss, no aliasing
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.raw); got != tc.want {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCategoryTotalAndIdempotent(t *testing.T) {
	inputs := []string{"", "garbage", "public_info", "  BUSINESS_INFO", "Category: X", "널"}
	for _, raw := range inputs {
		first := NormalizeCategory(raw)
		if !ValidCategory(first) {
			t.Fatalf("NormalizeCategory(%q) = %q is outside the key set", raw, first)
		}
		if again := NormalizeCategory(string(first)); again != first {
			t.Fatalf("normalize not idempotent for %q: %q != %q", raw, again, first)
		}
	}
}

func TestCategoryLabelFallback(t *testing.T) {
	if got := CategoryLabel(CategoryHRInfo); got != "인사 정보 (암호화 필요)" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := CategoryLabel(CategoryKey("BOGUS")); got != "BOGUS" {
		t.Fatalf("expected raw-key fallback, got %q", got)
	}
}

func TestCategoryKeysOrder(t *testing.T) {
	keys := CategoryKeys()
	want := []CategoryKey{
		CategoryHRInfo,
		CategoryPersonalInfo,
		CategoryBusinessInfo,
		CategoryTechInfo,
		CategoryPublicInfo,
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key order mismatch at %d: %q != %q", i, keys[i], want[i])
		}
	}
}
