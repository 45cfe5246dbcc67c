// Package commission computes broker and dealer commissions on closed deals.
package commission

import (
	"strings"

	"github.com/iwvelando/broker-engine/pkg/mathutil"
)

// Role is the party earning the commission.
type Role string

// Roles that earn commissions.
const (
	Broker Role = "broker"
	Dealer Role = "dealer"
)

type roleDefaults struct {
	defaultPercentage float64
	presets           []float64
}

var defaults = map[Role]roleDefaults{
	Broker: {defaultPercentage: 3, presets: []float64{2, 3, 4, 5}},
	Dealer: {defaultPercentage: 5, presets: []float64{3, 5, 7, 10}},
}

// ParseRole normalizes s into a known role.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := defaults[role]
	return role, ok
}

// Compute returns dealAmount * percentage / 100. Inputs are not clamped.
func Compute(dealAmount, percentage float64) float64 {
	return mathutil.ApplyPercentage(dealAmount, percentage)
}

// DefaultPercentage is the percentage preselected for role, or 0 for an unknown role.
func DefaultPercentage(role Role) float64 {
	return defaults[role].defaultPercentage
}

// Presets are the quick-pick percentages offered to role.
func Presets(role Role) []float64 {
	return append([]float64(nil), defaults[role].presets...)
}

// Input describes a commission request. A nil Percentage means none was
// chosen; an explicit 0 is a real zero-percent commission.
type Input struct {
	DealAmount float64  `json:"dealAmount"`
	Percentage *float64 `json:"percentage,omitempty"`
	Role       Role     `json:"role"`
}

// Percent returns a pointer to p for Input.Percentage.
func Percent(p float64) *float64 {
	return &p
}

// Result is a computed commission.
type Result struct {
	DealAmount       float64 `json:"dealAmount"`
	Percentage       float64 `json:"percentage"`
	Role             Role    `json:"role"`
	CommissionAmount float64 `json:"commissionAmount"`
}

// Calculate computes the commission for in. An omitted percentage falls back
// to the role default.
func Calculate(in Input) Result {
	pct := DefaultPercentage(in.Role)
	if in.Percentage != nil {
		pct = *in.Percentage
	}
	return Result{
		DealAmount:       in.DealAmount,
		Percentage:       pct,
		Role:             in.Role,
		CommissionAmount: Compute(in.DealAmount, pct),
	}
}
