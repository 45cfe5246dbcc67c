package loans

import (
	"math"
	"testing"

	"github.com/iwvelando/broker-engine/pkg/mathutil"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		principal          float64
		annualInterestRate float64
		termMonths         int
		expectedRange      []float64 // [min, max] expected range
	}{
		{
			name:               "5-year car loan",
			principal:          20000,
			annualInterestRate: 6.0,
			termMonths:         60,
			expectedRange:      []float64{386.65, 386.67}, // Around $386.66
		},
		{
			name:               "Zero interest loan",
			principal:          12000,
			annualInterestRate: 0.0,
			termMonths:         12,
			expectedRange:      []float64{1000, 1000}, // Exactly $1000
		},
		{
			name:               "Zero principal",
			principal:          0,
			annualInterestRate: 7.99,
			termMonths:         48,
			expectedRange:      []float64{0, 0},
		},
		{
			name:               "Negative principal",
			principal:          -5000,
			annualInterestRate: 7.99,
			termMonths:         48,
			expectedRange:      []float64{0, 0},
		},
		{
			name:               "High interest loan",
			principal:          10000,
			annualInterestRate: 18.0,
			termMonths:         36,
			expectedRange:      []float64{361, 363}, // Around $361.52
		},
		{
			name:               "Single month",
			principal:          1000,
			annualInterestRate: 12.0,
			termMonths:         1,
			expectedRange:      []float64{1009.99, 1010.01}, // principal plus one month at 1%
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.annualInterestRate, tt.termMonths)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.4f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualInterestRate float64
		expected           float64
	}{
		{"Six percent on 20000", 20000, 6.0, 100},
		{"Zero rate", 20000, 0, 0},
		{"Zero balance", 0, 18.99, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualInterestRate)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculateInterestPayment() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestAmortize(t *testing.T) {
	result := Amortize(LoanTerms{Principal: 20000, AnnualRatePercent: 6, TermMonths: 60})

	if math.Abs(result.MonthlyPayment-386.66) > 0.01 {
		t.Errorf("MonthlyPayment = %.4f, expected 386.66", result.MonthlyPayment)
	}
	if math.Abs(result.TotalInterest-3199.60) > 0.01 {
		t.Errorf("TotalInterest = %.4f, expected 3199.60", result.TotalInterest)
	}
	if math.Abs(result.TotalOfPayments-23199.60) > 0.01 {
		t.Errorf("TotalOfPayments = %.4f, expected 23199.60", result.TotalOfPayments)
	}
	if math.Abs(result.TotalOfPayments-result.MonthlyPayment*60) > 0.01*60 {
		t.Errorf("TotalOfPayments %.4f does not match payment*term", result.TotalOfPayments)
	}
	if math.Abs(result.TotalInterest-(result.TotalOfPayments-20000)) > 1e-9 {
		t.Errorf("TotalInterest %.4f is not TotalOfPayments - principal", result.TotalInterest)
	}
}

func TestAmortizeTotalsAreCentBilled(t *testing.T) {
	terms := LoanTerms{Principal: 20000, AnnualRatePercent: 6, TermMonths: 60}
	result := Amortize(terms)

	if result.MonthlyPayment == mathutil.Round(result.MonthlyPayment) {
		t.Fatalf("MonthlyPayment = %v, expected the unrounded formula value", result.MonthlyPayment)
	}
	billed := mathutil.Round(result.MonthlyPayment) * 60
	if result.TotalOfPayments != billed {
		t.Errorf("TotalOfPayments = %v, expected rounded payment * term = %v", result.TotalOfPayments, billed)
	}
	if result.TotalOfPayments == result.MonthlyPayment*60 {
		t.Errorf("TotalOfPayments = %v, expected it to differ from the unrounded payment * term", result.TotalOfPayments)
	}
	if result.TotalInterest != billed-terms.Principal {
		t.Errorf("TotalInterest = %v, expected %v", result.TotalInterest, billed-terms.Principal)
	}
}

func TestAmortizeZeroRate(t *testing.T) {
	result := Amortize(LoanTerms{Principal: 12000, AnnualRatePercent: 0, TermMonths: 12})

	if result.MonthlyPayment != 1000 {
		t.Errorf("MonthlyPayment = %v, expected exactly 1000", result.MonthlyPayment)
	}
	if result.TotalInterest != 0 {
		t.Errorf("TotalInterest = %v, expected 0", result.TotalInterest)
	}
	if result.TotalOfPayments != 12000 {
		t.Errorf("TotalOfPayments = %v, expected 12000", result.TotalOfPayments)
	}
}

func TestAmortizeZeroPrincipal(t *testing.T) {
	for _, terms := range []LoanTerms{
		{Principal: 0, AnnualRatePercent: 6, TermMonths: 60},
		{Principal: 0, AnnualRatePercent: 0, TermMonths: 1},
		{Principal: 0, AnnualRatePercent: 18.99, TermMonths: 84},
		{Principal: -100, AnnualRatePercent: 5.99, TermMonths: 36},
	} {
		result := Amortize(terms)
		if result != (AmortizationResult{}) {
			t.Errorf("Amortize(%+v) = %+v, expected all zeros", terms, result)
		}
	}
}

func TestLoanTermsMonthlyRate(t *testing.T) {
	terms := LoanTerms{AnnualRatePercent: 6}
	if math.Abs(terms.MonthlyRate()-0.005) > 1e-12 {
		t.Errorf("MonthlyRate() = %v, expected 0.005", terms.MonthlyRate())
	}
}

func TestSchedule(t *testing.T) {
	terms := LoanTerms{Principal: 20000, AnnualRatePercent: 6, TermMonths: 60}
	schedule := Schedule(terms)

	if len(schedule) != 60 {
		t.Fatalf("expected 60 payments, got %d", len(schedule))
	}

	first := schedule[0]
	if math.Abs(first.Interest-100) > 1e-9 {
		t.Errorf("first interest = %v, expected 100", first.Interest)
	}
	if math.Abs(first.Principal-286.656) > 0.001 {
		t.Errorf("first principal = %v, expected about 286.656", first.Principal)
	}

	var principalPaid float64
	for i, p := range schedule {
		if p.Month != i+1 {
			t.Errorf("payment %d has month %d", i, p.Month)
		}
		principalPaid += p.Principal
	}
	if math.Abs(principalPaid-20000) > 1e-6 {
		t.Errorf("principal paid = %v, expected 20000", principalPaid)
	}

	last := schedule[len(schedule)-1]
	if last.RemainingPrincipal != 0 {
		t.Errorf("final remaining principal = %v, expected 0", last.RemainingPrincipal)
	}
	if math.Abs(last.Payment-first.Payment) > 0.01 {
		t.Errorf("final payment %v drifted from %v", last.Payment, first.Payment)
	}
}

func TestScheduleDegenerate(t *testing.T) {
	if s := Schedule(LoanTerms{Principal: 0, AnnualRatePercent: 5, TermMonths: 12}); s != nil {
		t.Errorf("expected nil schedule for zero principal, got %d payments", len(s))
	}
	s := Schedule(LoanTerms{Principal: 1200, AnnualRatePercent: 0, TermMonths: 12})
	if len(s) != 12 {
		t.Fatalf("expected 12 payments, got %d", len(s))
	}
	for _, p := range s {
		if p.Interest != 0 || math.Abs(p.Payment-100) > 1e-9 {
			t.Errorf("zero rate payment %+v", p)
		}
	}
}
