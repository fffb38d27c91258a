package jobs

import (
	"strconv"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// SalaryNotSpecified is shown when a job has no usable compensation data.
const SalaryNotSpecified = "Salary not specified"

// FormatSalary renders compensation for display.
//
//	"₹5.0L - ₹10.0L"  INR, lakhs, one decimal
//	"$50K - $80K"     everything else, thousands, no decimals
//	"$50K+"           lower bound only
//
// Pre-formatted strings pass through unchanged.
func FormatSalary(s *engine.Salary) string {
	if s == nil {
		return SalaryNotSpecified
	}
	if s.IsText() {
		return s.Text
	}
	if s.Min == 0 && s.Max == 0 {
		return SalaryNotSpecified
	}

	sym, mag := salaryUnits(s.Currency)
	switch {
	case s.Min > 0 && s.Max > 0:
		return sym + mag(s.Min) + " - " + sym + mag(s.Max)
	case s.Min > 0:
		return sym + mag(s.Min) + "+"
	default:
		return "Up to " + sym + mag(s.Max)
	}
}

func salaryUnits(currency string) (string, func(float64) string) {
	if currency == "INR" {
		return "₹", func(v float64) string {
			return strconv.FormatFloat(v/100_000, 'f', 1, 64) + "L"
		}
	}
	return "$", func(v float64) string {
		return strconv.FormatFloat(v/1_000, 'f', 0, 64) + "K"
	}
}

// salaryBounds returns the numeric bounds used for comparisons.
// Missing salaries and pre-formatted strings compare as 0.
func salaryBounds(s *engine.Salary) (lo, hi float64) {
	if s == nil || s.IsText() {
		return 0, 0
	}
	return s.Min, s.Max
}

// SalaryWithin reports whether a job's salary satisfies the given bounds.
// A nil bound is not applied. Because a missing salary compares as 0, such jobs
// fail any positive lower bound and pass any non-negative upper bound.
func SalaryWithin(s *engine.Salary, minBound, maxBound *float64) bool {
	lo, hi := salaryBounds(s)
	if minBound != nil && lo < *minBound {
		return false
	}
	if maxBound != nil && hi > *maxBound {
		return false
	}
	return true
}
