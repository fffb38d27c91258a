package jobs

import (
	"testing"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		name string
		s    *engine.Salary
		want string
	}{
		{"inr range", &engine.Salary{Min: 500000, Max: 1000000, Currency: "INR"}, "₹5.0L - ₹10.0L"},
		{"usd range", &engine.Salary{Min: 50000, Max: 80000, Currency: "USD"}, "$50K - $80K"},
		{"zero", &engine.Salary{}, SalaryNotSpecified},
		{"nil", nil, SalaryNotSpecified},
		{"text passthrough", &engine.Salary{Text: "Competitive"}, "Competitive"},
		{"min only", &engine.Salary{Min: 50000, Currency: "USD"}, "$50K+"},
		{"inr min only", &engine.Salary{Min: 1250000, Currency: "INR"}, "₹12.5L+"},
		{"max only", &engine.Salary{Max: 80000}, "Up to $80K"},
		{"other currency uses dollar", &engine.Salary{Min: 40000, Max: 60000, Currency: "EUR"}, "$40K - $60K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSalary(tt.s); got != tt.want {
				t.Errorf("FormatSalary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSalaryWithin(t *testing.T) {
	usd := &engine.Salary{Min: 60000, Max: 90000, Currency: "USD"}
	tests := []struct {
		name     string
		s        *engine.Salary
		min, max *float64
		want     bool
	}{
		{"no bounds", usd, nil, nil, true},
		{"min satisfied", usd, engine.Float(50000), nil, true},
		{"min failed", usd, engine.Float(70000), nil, false},
		{"max satisfied", usd, nil, engine.Float(100000), true},
		{"max failed", usd, nil, engine.Float(80000), false},
		{"missing salary fails positive min", nil, engine.Float(1), nil, false},
		{"missing salary passes max", nil, nil, engine.Float(50000), true},
		{"missing salary passes no bounds", nil, nil, nil, true},
		{"text salary compares as zero", &engine.Salary{Text: "$100K"}, engine.Float(1), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SalaryWithin(tt.s, tt.min, tt.max); got != tt.want {
				t.Errorf("SalaryWithin() = %v, want %v", got, tt.want)
			}
		})
	}
}
