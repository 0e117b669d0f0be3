package textx

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  مرحبا  ", "مرحبا"},
		{"arabic indic digits", "٨٠٠٠٠", "80000"},
		{"latin case folding", "Hello YES", "hello yes"},
		{"alef variants fold", "أهلا وإقامة وآلة", "اهلا واقامه واله"},
		{"taa marbuta folds", "بداية", "بدايه"},
		{"strips emoji and punctuation", "موافق! 👍", "موافق "},
		{"keeps decimal point", "٥٠٠.٥", "500.5"},
		{"keeps minus sign", "-500", "-500"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"80000", 80000, true},
		{"80000 ريال", 80000, true},
		{"500.5", 500.5, true},
		{"-500", -500, true},
		{"abc", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"...", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseAmount(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
