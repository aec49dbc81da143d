package types

import "testing"

func TestRoundQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.2344", "1.234"},
		{"1.2345", "1.235"},
		{"1.2346", "1.235"},
		{"10", "10"},
		{"0.0005", "0.001"},
	}

	for _, tt := range tests {
		got := RoundQuantity(MustFromString(tt.in))
		if got.String() != tt.want {
			t.Errorf("RoundQuantity(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRoundCost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.333", "3.33"},
		{"3.335", "3.34"},
		{"3.336", "3.34"},
		{"5", "5"},
	}

	for _, tt := range tests {
		got := RoundCost(MustFromString(tt.in))
		if got.String() != tt.want {
			t.Errorf("RoundCost(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestExactArithmetic(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, the reason decimals are used at all.
	sum := MustFromString("0.1").Add(MustFromString("0.2"))
	if sum.String() != "0.3" {
		t.Errorf("0.1 + 0.2 = %s, want 0.3", sum)
	}
}
