package qualification

import "encoding/json"

// Result is either NotYetCalculated or a calculated Assessment.
type Result struct {
	calculated bool
	assessment Assessment
}

// NotYetCalculated is the result before the applicant asks for a verdict.
func NotYetCalculated() Result {
	return Result{}
}

// Calculated reports whether the result holds a verdict.
func (r Result) Calculated() bool {
	return r.calculated
}

// Verdict returns the verdict, if calculated.
func (r Result) Verdict() (Verdict, bool) {
	return r.assessment.Verdict, r.calculated
}

// Assessment returns the full assessment, if calculated.
func (r Result) Assessment() (Assessment, bool) {
	return r.assessment, r.calculated
}

// MarshalJSON encodes {"calculated":false} or the assessment with "calculated":true.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.calculated {
		return json.Marshal(struct {
			Calculated bool `json:"calculated"`
		}{})
	}
	return json.Marshal(struct {
		Calculated bool `json:"calculated"`
		Assessment
	}{true, r.assessment})
}

// Qualify is a single calculate action on in: it yields NotYetCalculated when
// the income is missing and an assessment otherwise.
func Qualify(in Input) Result {
	a, ok := Assess(in)
	if !ok {
		return NotYetCalculated()
	}
	return Result{calculated: true, assessment: a}
}

// Session models the two-step pre-qualification form: inputs are edited
// freely, and a verdict only exists after Calculate. Any edit discards the
// previous verdict without recomputing it. A Session is not safe for
// concurrent use.
type Session struct {
	input  Input
	result Result
}

// NewSession starts a session with initial inputs.
func NewSession(in Input) *Session {
	return &Session{input: in}
}

// Input returns the current inputs.
func (s *Session) Input() Input {
	return s.input
}

// Result returns the last calculated result, or NotYetCalculated.
func (s *Session) Result() Result {
	return s.result
}

// CanCalculate reports whether the calculate action should be enabled.
func (s *Session) CanCalculate() bool {
	return s.input.MonthlyIncome > 0
}

// Calculate runs the evaluation on the current inputs.
func (s *Session) Calculate() Result {
	s.result = Qualify(s.input)
	return s.result
}

// SetInput replaces all inputs.
func (s *Session) SetInput(in Input) {
	s.input = in
	s.invalidate()
}

// SetVehiclePrice updates the vehicle price.
func (s *Session) SetVehiclePrice(price float64) {
	s.input.VehiclePrice = price
	s.invalidate()
}

// SetDownPaymentPercent updates the down payment percentage.
func (s *Session) SetDownPaymentPercent(pct float64) {
	s.input.DownPaymentPercent = pct
	s.invalidate()
}

// SetLoanTermMonths updates the term.
func (s *Session) SetLoanTermMonths(months int) {
	s.input.LoanTermMonths = months
	s.invalidate()
}

// SetCreditTier updates the credit tier.
func (s *Session) SetCreditTier(tier CreditTier) {
	s.input.CreditTier = tier
	s.invalidate()
}

// SetMonthlyIncome updates the monthly income.
func (s *Session) SetMonthlyIncome(income float64) {
	s.input.MonthlyIncome = income
	s.invalidate()
}

// SetEmploymentStatus updates the employment status.
func (s *Session) SetEmploymentStatus(status EmploymentStatus) {
	s.input.EmploymentStatus = status
	s.invalidate()
}

func (s *Session) invalidate() {
	s.result = NotYetCalculated()
}
