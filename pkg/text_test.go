package pkg

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "shorter than limit", in: "Harambee", n: 12, want: "Harambee"},
		{name: "exact limit", in: "Harambee", n: 8, want: "Harambee"},
		{name: "cut", in: "Campaign-proj_school_dev_001", n: 12, want: "Campaign-pro"},
		{name: "multibyte runes stay whole", in: "Mchango wa shule ✓✓✓", n: 19, want: "Mchango wa shule ✓✓"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
