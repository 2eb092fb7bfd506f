package jalali

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1402/07/15", true},
		{"1402/07/01", true},
		{"1402/12/29", true},
		{"1403/12/30", true}, // 1403 is a leap year
		{"1402/12/30", false},
		{"1402/13/01", false},
		{"1402/00/10", false},
		{"1402/07/32", false},
		{"1402/07/00", false},
		{"  1402/07/15  ", true},
		{"1402/7/5", true},
		{"1402-07-15", false},
		{"1402/07", false},
		{"1402/07/15/1", false},
		{"1402/07/xx", false},
		{"", false},
		{"///", false},
	}
	for _, c := range cases {
		if got := Valid(c.in); got != c.want {
			t.Errorf("Valid(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestToGregorian(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1402/07/01", "2023-09-23"},
		{"1402/01/01", "2023-03-21"},
		{"1403/01/01", "2024-03-20"},
		{"1403/12/30", "2025-03-20"},
		{"1402/7/1", "2023-09-23"},
	}
	for _, c := range cases {
		if got := ToGregorian(c.in); got != c.want {
			t.Errorf("ToGregorian(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestToGregorianFallback(t *testing.T) {
	// Unconvertible input comes back unchanged so sorting degrades
	// instead of failing.
	for _, in := range []string{"not-a-date", "1402/13/01", ""} {
		if got := ToGregorian(in); got != in {
			t.Errorf("ToGregorian(%q)=%q, want input unchanged", in, got)
		}
	}
}

func TestSortKeyOrdersAcrossUnpaddedMonths(t *testing.T) {
	// Raw string order puts 1402/9/25 after 1402/10/02; the converted
	// key restores chronological order.
	earlier, later := SortKey("1402/9/25"), SortKey("1402/10/02")
	if !(earlier < later) {
		t.Errorf("SortKey ordering wrong: %q should sort before %q", earlier, later)
	}
}
