package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/broker-engine/pkg/format"
)

// ErrUnknownCurrency is returned by strict lookups for codes missing from the table.
var ErrUnknownCurrency = errors.New("unknown currency code")

// UnknownCodePolicy selects how a Table treats codes it does not know.
type UnknownCodePolicy int

const (
	// Permissive prices unknown codes at rate 1, i.e. as if they were CAD.
	Permissive UnknownCodePolicy = iota
	// Strict rejects unknown codes with ErrUnknownCurrency.
	Strict
)

// Table is an immutable set of rates keyed by code. The zero value is empty
// and permissive.
type Table struct {
	rates  map[string]Rate
	policy UnknownCodePolicy
}

// DefaultTable is the process-wide rate table. It is never mutated.
var DefaultTable = NewTable(defaultRates, Permissive)

// NewTable builds a table from rates. Codes are matched case-insensitively.
func NewTable(rates []Rate, policy UnknownCodePolicy) Table {
	m := make(map[string]Rate, len(rates))
	for _, r := range rates {
		r.Code = normalize(r.Code)
		m[r.Code] = r
	}
	return Table{rates: m, policy: policy}
}

// WithPolicy returns a copy of the table using policy for unknown codes.
func (t Table) WithPolicy(policy UnknownCodePolicy) Table {
	return Table{rates: t.rates, policy: policy}
}

// Policy reports the table's unknown code policy.
func (t Table) Policy() UnknownCodePolicy {
	return t.policy
}

// Lookup returns the rate for code.
func (t Table) Lookup(code string) (Rate, bool) {
	r, ok := t.rates[normalize(code)]
	return r, ok
}

// Known reports whether code is present in the table.
func (t Table) Known(code string) bool {
	_, ok := t.Lookup(code)
	return ok
}

// Rates lists the table sorted by code.
func (t Table) Rates() []Rate {
	out := make([]Rate, 0, len(t.rates))
	for _, r := range t.rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Convert converts amount from one currency to another through CAD. Unknown
// codes are priced at rate 1 regardless of policy; use ConvertStrict to
// honour a Strict policy.
func (t Table) Convert(amount float64, from, to string) float64 {
	if normalize(from) == normalize(to) {
		return amount
	}
	amountInBase := amount / t.rateOrOne(from)
	return amountInBase * t.rateOrOne(to)
}

// ConvertStrict converts like Convert but, under a Strict policy, fails on
// codes missing from the table.
func (t Table) ConvertStrict(amount float64, from, to string) (float64, error) {
	if t.policy == Strict {
		for _, code := range []string{from, to} {
			if !t.Known(code) {
				return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
			}
		}
	}
	return t.Convert(amount, from, to), nil
}

// Format renders amount in whole units with the currency symbol. Unknown
// codes use the code itself as the label.
func (t Table) Format(amount float64, code string) string {
	if r, ok := t.Lookup(code); ok {
		return format.Currency(amount, r.Symbol)
	}
	return format.Currency(amount, normalize(code))
}

func (t Table) rateOrOne(code string) float64 {
	if r, ok := t.Lookup(code); ok && r.RateFromBase > 0 {
		return r.RateFromBase
	}
	return 1
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Convert converts amount between currencies using DefaultTable.
func Convert(amount float64, from, to string) float64 {
	return DefaultTable.Convert(amount, from, to)
}

// Lookup returns a rate from DefaultTable.
func Lookup(code string) (Rate, bool) {
	return DefaultTable.Lookup(code)
}

// Format renders amount in the given currency using DefaultTable.
func Format(amount float64, code string) string {
	return DefaultTable.Format(amount, code)
}
