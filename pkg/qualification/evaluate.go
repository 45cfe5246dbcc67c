package qualification

import (
	"github.com/iwvelando/broker-engine/pkg/loans"
	"github.com/iwvelando/broker-engine/pkg/mathutil"
)

// Verdict is the outcome of a pre-qualification.
type Verdict string

// Verdicts in the order their rules are checked.
const (
	NotEligible      Verdict = "not-eligible"
	NeedsImprovement Verdict = "needs-improvement"
	HighRisk         Verdict = "high-risk"
	Conditional      Verdict = "conditional"
	LikelyApproved   Verdict = "likely-approved"
)

// Thresholds applied by Evaluate.
const (
	PoorCreditMinDownPercent = 30.0
	HighRiskDTIPercent       = 45.0
	ConditionalDTIPercent    = 35.0
)

var reasonKeys = map[Verdict]string{
	NotEligible:      "prequal.reason.unemployed",
	NeedsImprovement: "prequal.reason.poorCreditLowDownPayment",
	HighRisk:         "prequal.reason.debtToIncomeAbove45",
	Conditional:      "prequal.reason.debtToIncomeAbove35",
	LikelyApproved:   "prequal.reason.withinGuidelines",
}

// ReasonKey is the localization key explaining the verdict.
func (v Verdict) ReasonKey() string {
	return reasonKeys[v]
}

// Input is everything the applicant provides.
type Input struct {
	VehiclePrice       float64          `json:"vehiclePrice"`
	DownPaymentPercent float64          `json:"downPaymentPercent"`
	LoanTermMonths     int              `json:"loanTermMonths"`
	CreditTier         CreditTier       `json:"creditTier"`
	MonthlyIncome      float64          `json:"monthlyIncome"`
	EmploymentStatus   EmploymentStatus `json:"employmentStatus"`
}

// Assessment is a verdict together with the figures behind it.
type Assessment struct {
	Verdict           Verdict `json:"verdict"`
	ReasonKey         string  `json:"reasonKey"`
	DownPayment       float64 `json:"downPayment"`
	LoanAmount        float64 `json:"loanAmount"`
	APR               float64 `json:"apr"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio"`
}

// Assess computes the loan an applicant would carry and applies the rules.
// It reports false without an assessment when the monthly income is not
// positive, since no debt-to-income ratio exists. Rules, first match wins:
//
//  1. unemployed                               -> not-eligible
//  2. poor credit and down payment under 30%   -> needs-improvement
//  3. debt-to-income above 45%                 -> high-risk
//  4. debt-to-income above 35%                 -> conditional
//  5. otherwise                                -> likely-approved
func Assess(in Input) (Assessment, bool) {
	if !(in.MonthlyIncome > 0) {
		return Assessment{}, false
	}
	return assess(in), true
}

func assess(in Input) Assessment {
	downPayment := mathutil.RoundWhole(mathutil.ApplyPercentage(in.VehiclePrice, in.DownPaymentPercent))
	loanAmount := in.VehiclePrice - downPayment
	apr := aprOrWorst(in.CreditTier)
	payment := loans.Amortize(loans.LoanTerms{
		Principal:         loanAmount,
		AnnualRatePercent: apr,
		TermMonths:        in.LoanTermMonths,
	}).MonthlyPayment
	dti := mathutil.CalculatePercentage(payment, in.MonthlyIncome)

	a := Assessment{
		DownPayment:       downPayment,
		LoanAmount:        loanAmount,
		APR:               apr,
		MonthlyPayment:    payment,
		DebtToIncomeRatio: dti,
	}

	switch {
	case in.EmploymentStatus == Unemployed:
		a.Verdict = NotEligible
	case in.CreditTier == Poor && in.DownPaymentPercent < PoorCreditMinDownPercent:
		a.Verdict = NeedsImprovement
	case dti > HighRiskDTIPercent:
		a.Verdict = HighRisk
	case dti > ConditionalDTIPercent:
		a.Verdict = Conditional
	default:
		a.Verdict = LikelyApproved
	}
	a.ReasonKey = a.Verdict.ReasonKey()
	return a
}

// Evaluate returns only the verdict of Assess, and false when the income
// leaves nothing to evaluate.
func Evaluate(in Input) (Verdict, bool) {
	a, ok := Assess(in)
	return a.Verdict, ok
}
