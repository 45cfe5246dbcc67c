// Package qualification pre-qualifies vehicle buyers for financing from the
// vehicle price, down payment, term, credit tier, income and employment.
package qualification

import "strings"

// CreditTier is a self-reported credit band.
type CreditTier string

// Credit tiers, best to worst.
const (
	Excellent CreditTier = "excellent"
	Good      CreditTier = "good"
	Fair      CreditTier = "fair"
	Poor      CreditTier = "poor"
)

var tierAPR = map[CreditTier]float64{
	Excellent: 5.99,
	Good:      7.99,
	Fair:      12.99,
	Poor:      18.99,
}

// Tiers lists the credit tiers in order from best to worst.
func Tiers() []CreditTier {
	return []CreditTier{Excellent, Good, Fair, Poor}
}

// ParseCreditTier normalizes s into a known tier.
func ParseCreditTier(s string) (CreditTier, bool) {
	tier := CreditTier(strings.ToLower(strings.TrimSpace(s)))
	_, ok := tierAPR[tier]
	return tier, ok
}

// APR returns the fixed annual rate bound to tier.
func APR(tier CreditTier) (float64, bool) {
	rate, ok := tierAPR[tier]
	return rate, ok
}

// aprOrWorst prices an unknown tier at the poor-credit rate.
func aprOrWorst(tier CreditTier) float64 {
	if rate, ok := tierAPR[tier]; ok {
		return rate
	}
	return tierAPR[Poor]
}

// EmploymentStatus describes the applicant's source of income.
type EmploymentStatus string

// Employment statuses offered to applicants. Only Unemployed affects the verdict.
const (
	Employed     EmploymentStatus = "employed"
	SelfEmployed EmploymentStatus = "self-employed"
	Retired      EmploymentStatus = "retired"
	Unemployed   EmploymentStatus = "unemployed"
)

// ParseEmploymentStatus normalizes s. Unknown statuses are returned as-is with ok false.
func ParseEmploymentStatus(s string) (EmploymentStatus, bool) {
	status := EmploymentStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case Employed, SelfEmployed, Retired, Unemployed:
		return status, true
	}
	return status, false
}
