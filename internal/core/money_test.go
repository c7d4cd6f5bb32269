package core

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
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
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", -100, true},
		{"0.004", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestMoneyConversions(t *testing.T) {
	m := MoneyFromCents(1050)
	if m.Float64() != 10.5 {
		t.Errorf("Float64() = %v, want 10.5", m.Float64())
	}
	if m.String() != "10.50" {
		t.Errorf("String() = %q, want 10.50", m.String())
	}
	if got := m.Add(MoneyFromCents(25)); got.Cents != 1075 {
		t.Errorf("Add() = %d, want 1075", got.Cents)
	}
	if MoneyFromCents(0).IsPositive() || !MoneyFromCents(1).IsPositive() {
		t.Error("IsPositive() disagrees with sign")
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		part, whole int64
		want        float64
	}{
		{3000, 3500, 85.7},
		{500, 3500, 14.3},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{100, 100, 100},
		{5, 0, 0},
	}
	for _, tc := range cases {
		got := Percentage(MoneyFromCents(tc.part), MoneyFromCents(tc.whole))
		if got != tc.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tc.part, tc.whole, got, tc.want)
		}
	}
}
