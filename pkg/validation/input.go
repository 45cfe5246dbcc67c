package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/broker-engine/pkg/commission"
	"github.com/iwvelando/broker-engine/pkg/constants"
	"github.com/iwvelando/broker-engine/pkg/loans"
	"github.com/iwvelando/broker-engine/pkg/qualification"
)

// ErrInvalidInput is matched by every FieldError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// FieldError reports a single rejected field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap ties FieldError to ErrInvalidInput.
func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func fieldErr(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fieldErr(field, "must be a finite number")
	}
	if v < 0 {
		return fieldErr(field, "must not be negative, got %v", v)
	}
	return nil
}

func termMonths(field string, months int) error {
	if months < constants.MinTermMonths || months > constants.MaxTermMonths {
		return fieldErr(field, "must be between %d and %d months, got %d",
			constants.MinTermMonths, constants.MaxTermMonths, months)
	}
	return nil
}

func percentage(field string, v, min, max float64) error {
	if err := nonNegative(field, v); err != nil {
		return err
	}
	if v < min || v > max {
		return fieldErr(field, "must be between %v and %v, got %v", min, max, v)
	}
	return nil
}

// ValidateLoanTerms checks the inputs to an amortization.
func ValidateLoanTerms(terms loans.LoanTerms) error {
	if err := nonNegative("principal", terms.Principal); err != nil {
		return err
	}
	if err := nonNegative("annualRatePercent", terms.AnnualRatePercent); err != nil {
		return err
	}
	return termMonths("termMonths", terms.TermMonths)
}

// ValidateFinancing checks a vehicle financing request.
func ValidateFinancing(f loans.VehicleFinancing) error {
	for _, c := range []struct {
		field string
		value float64
	}{
		{"vehiclePrice", f.VehiclePrice},
		{"downPayment", f.DownPayment},
		{"tradeInValue", f.TradeInValue},
		{"annualRatePercent", f.AnnualRatePercent},
	} {
		if err := nonNegative(c.field, c.value); err != nil {
			return err
		}
	}
	return termMonths("termMonths", f.TermMonths)
}

// ValidateQualification checks a pre-qualification request. A missing
// income is not an error: it produces no verdict.
func ValidateQualification(in qualification.Input) error {
	if err := nonNegative("vehiclePrice", in.VehiclePrice); err != nil {
		return err
	}
	if err := percentage("downPaymentPercent", in.DownPaymentPercent,
		constants.MinDownPaymentPercent, constants.MaxDownPaymentPercent); err != nil {
		return err
	}
	if err := termMonths("loanTermMonths", in.LoanTermMonths); err != nil {
		return err
	}
	if _, ok := qualification.APR(in.CreditTier); !ok {
		return fieldErr("creditTier", "unknown credit tier %q", in.CreditTier)
	}
	if _, ok := qualification.ParseEmploymentStatus(string(in.EmploymentStatus)); !ok {
		return fieldErr("employmentStatus", "unknown employment status %q", in.EmploymentStatus)
	}
	if math.IsNaN(in.MonthlyIncome) || math.IsInf(in.MonthlyIncome, 0) {
		return fieldErr("monthlyIncome", "must be a finite number")
	}
	return nil
}

// ValidateCommission checks a commission request.
func ValidateCommission(in commission.Input) error {
	if err := nonNegative("dealAmount", in.DealAmount); err != nil {
		return err
	}
	if in.Percentage != nil {
		if err := percentage("percentage", *in.Percentage, 0, constants.MaxPercentage); err != nil {
			return err
		}
	}
	if _, ok := commission.ParseRole(string(in.Role)); !ok {
		return fieldErr("role", "unknown role %q", in.Role)
	}
	return nil
}

// ValidateAmount checks a free-standing monetary amount such as a conversion input.
func ValidateAmount(field string, amount float64) error {
	return nonNegative(field, amount)
}
