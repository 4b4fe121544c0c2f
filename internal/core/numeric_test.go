package core

import "testing"

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"25", 25},
		{"25.5", 25.5},
		{"25,5", 25.5},
		{"€25.00", 25},
		{"€ 1,234.56", 1234.56},
		{"€1.234,56", 1234.56},
		{"1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"-3,5", -3.5},
		{"12 kg", 12},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanNumber(tt.in); got != tt.want {
				t.Errorf("CleanNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"3", 3},
		{"3.9", 3},
		{"€12.00", 12},
		{"junk", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanInt(tt.in); got != tt.want {
				t.Errorf("CleanInt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
