// Package loans provides fixed-rate amortization for vehicle financing.
package loans

import (
	"math"

	"github.com/iwvelando/broker-engine/pkg/constants"
	"github.com/iwvelando/broker-engine/pkg/mathutil"
)

// LoanTerms are the inputs to an amortization. Netting of down payment and
// trade-in happens before Principal is set.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
}

// MonthlyRate is the periodic rate derived from the annual percentage.
func (t LoanTerms) MonthlyRate() float64 {
	return t.AnnualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AmortizationResult holds the outputs of Amortize. MonthlyPayment is the
// unrounded formula value. TotalOfPayments is cent-billed: the payment
// rounded to the cent times the term. TotalInterest is TotalOfPayments less
// the principal, so both totals carry that rounding.
type AmortizationResult struct {
	MonthlyPayment  float64 `json:"monthlyPayment"`
	TotalInterest   float64 `json:"totalInterest"`
	TotalOfPayments float64 `json:"totalOfPayments"`
}

// Payment holds the values for a given month of a schedule.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if principal <= 0 || termMonths < 1 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	return principal * (periodicInterestRate * power) / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// Amortize computes the payment, total interest and total cost of a loan.
// A non-positive principal yields all zeros. MonthlyPayment is unrounded;
// the totals are what the borrower is billed, i.e. the payment rounded to the
// cent times the term.
func Amortize(terms LoanTerms) AmortizationResult {
	if terms.Principal <= 0 || terms.TermMonths < 1 {
		return AmortizationResult{}
	}

	monthlyPayment := CalculateMonthlyPayment(terms.Principal, terms.AnnualRatePercent, terms.TermMonths)
	totalOfPayments := mathutil.Round(monthlyPayment) * float64(terms.TermMonths)
	return AmortizationResult{
		MonthlyPayment:  monthlyPayment,
		TotalInterest:   totalOfPayments - terms.Principal,
		TotalOfPayments: totalOfPayments,
	}
}

// Schedule breaks a loan down month by month. The last payment absorbs any
// floating point residue so that the remaining principal ends at exactly 0.
func Schedule(terms LoanTerms) []Payment {
	if terms.Principal <= 0 || terms.TermMonths < 1 {
		return nil
	}

	monthlyPayment := CalculateMonthlyPayment(terms.Principal, terms.AnnualRatePercent, terms.TermMonths)
	schedule := make([]Payment, 0, terms.TermMonths)
	remaining := terms.Principal
	for month := 1; month <= terms.TermMonths; month++ {
		interest := CalculateInterestPayment(remaining, terms.AnnualRatePercent)
		principal := monthlyPayment - interest
		payment := monthlyPayment
		if month == terms.TermMonths {
			principal = remaining
			payment = principal + interest
		}
		remaining -= principal
		if month == terms.TermMonths {
			// We will get machine error otherwise so just set to 0.
			remaining = 0
		}
		schedule = append(schedule, Payment{
			Month:              month,
			Payment:            payment,
			Principal:          principal,
			Interest:           interest,
			RemainingPrincipal: remaining,
		})
	}
	return schedule
}
