package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"3.5", 350, true},
		{".5", 50, true},
		{"5.", 500, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		bare  string
		disp  string
	}{
		{350, "3.50", "$3.50"},
		{400, "4.00", "$4.00"},
		{5, "0.05", "$0.05"},
		{0, "0.00", "$0.00"},
		{123456, "1234.56", "$1234.56"},
	}
	for _, tc := range cases {
		m := Money{Cents: tc.cents}
		if m.String() != tc.bare {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.bare, m.String())
		}
		if m.Display() != tc.disp {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.disp, m.Display())
		}
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	for _, in := range []string{"0.00", "3.50", "12.34", "1000.00"} {
		m, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("%q unexpected error: %v", in, err)
		}
		if m.String() != in {
			t.Fatalf("%q did not round-trip, got %q", in, m.String())
		}
	}
}
