package format

import "testing"

func TestWhole(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "0"},
		{"Small", 999.4, "999"},
		{"Rounds half up", 386.5, "387"},
		{"Thousands", 20000, "20,000"},
		{"Millions", 1234567.89, "1,234,568"},
		{"Negative", -1234.5, "-1,235"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Whole(tt.amount); got != tt.expected {
				t.Errorf("Whole(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "0.00"},
		{386.656, "386.66"},
		{1234.5, "1,234.50"},
		{-1234.567, "-1,234.57"},
		{3199.6, "3,199.60"},
	}

	for _, tt := range tests {
		if got := NumericCurrency(tt.amount); got != tt.expected {
			t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		symbol   string
		expected string
	}{
		{"Single glyph symbol", 20000, "$", "$20,000"},
		{"Label symbol", 1234567.8, "CFA", "CFA 1,234,568"},
		{"No symbol", 5038, "", "5,038"},
		{"Negative", -250, "€", "-€250"},
		{"Negative rounding to zero", -0.2, "$", "$0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, tt.symbol); got != tt.expected {
				t.Errorf("Currency(%v, %q) = %q, expected %q", tt.amount, tt.symbol, got, tt.expected)
			}
		})
	}
}
