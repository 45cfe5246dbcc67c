// Package engine runs the calculators on behalf of the CLI and the HTTP API:
// it validates requests, computes, logs fallbacks and journals the quotes.
package engine

import (
	"context"
	"strings"

	"github.com/iwvelando/broker-engine/internal/store"
	"github.com/iwvelando/broker-engine/pkg/commission"
	"github.com/iwvelando/broker-engine/pkg/constants"
	"github.com/iwvelando/broker-engine/pkg/currency"
	"github.com/iwvelando/broker-engine/pkg/loans"
	"github.com/iwvelando/broker-engine/pkg/qualification"
	"github.com/iwvelando/broker-engine/pkg/shipping"
	"github.com/iwvelando/broker-engine/pkg/validation"
	"go.uber.org/zap"
)

// Journal records computed quotes.
type Journal interface {
	Save(ctx context.Context, kind store.Kind, currency string, request, result interface{}) (store.Quote, error)
}

// Engine is safe for concurrent use.
type Engine struct {
	logger  *zap.Logger
	rates   currency.Table
	journal Journal
}

// New returns an Engine. A nil journal disables journaling.
func New(logger *zap.Logger, rates currency.Table, journal Journal) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, rates: rates, journal: journal}
}

// Rates returns the conversion table in use.
func (e *Engine) Rates() currency.Table {
	return e.rates
}

// ConversionRequest asks for amount in From to be expressed in To.
type ConversionRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// Conversion is a converted amount with its display form.
type Conversion struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Display   string  `json:"display"`
}

// Convert converts between currencies. Unknown codes are rejected under the
// strict policy and priced at rate 1 otherwise.
func (e *Engine) Convert(ctx context.Context, req ConversionRequest) (Conversion, string, error) {
	if err := validation.ValidateAmount("amount", req.Amount); err != nil {
		return Conversion{}, "", err
	}
	req.From = strings.ToUpper(strings.TrimSpace(req.From))
	req.To = strings.ToUpper(strings.TrimSpace(req.To))
	if req.From == "" {
		req.From = constants.BaseCurrency
	}
	if req.To == "" {
		req.To = constants.BaseCurrency
	}

	var converted float64
	if e.rates.Policy() == currency.Strict {
		var err error
		converted, err = e.rates.ConvertStrict(req.Amount, req.From, req.To)
		if err != nil {
			return Conversion{}, "", err
		}
	} else {
		for _, code := range []string{req.From, req.To} {
			if !e.rates.Known(code) {
				e.logger.Warn("unknown currency code priced at rate 1",
					zap.String("op", "engine.Convert"),
					zap.String("code", code),
				)
			}
		}
		converted = e.rates.Convert(req.Amount, req.From, req.To)
	}

	result := Conversion{
		Amount:    req.Amount,
		From:      req.From,
		To:        req.To,
		Converted: converted,
		Display:   e.rates.Format(converted, req.To),
	}
	return result, e.record(ctx, store.KindConversion, req.To, req, result), nil
}

// Amortize validates terms and amortizes them.
func (e *Engine) Amortize(ctx context.Context, terms loans.LoanTerms) (loans.AmortizationResult, string, error) {
	if err := validation.ValidateLoanTerms(terms); err != nil {
		return loans.AmortizationResult{}, "", err
	}
	result := loans.Amortize(terms)
	e.logger.Debug("loan amortized",
		zap.String("op", "engine.Amortize"),
		zap.Float64("principal", terms.Principal),
		zap.Float64("monthlyPayment", result.MonthlyPayment),
	)
	return result, e.record(ctx, store.KindAmortization, "", terms, result), nil
}

// Schedule validates terms and returns the month-by-month breakdown. Schedules
// are derived data and are not journaled.
func (e *Engine) Schedule(_ context.Context, terms loans.LoanTerms) ([]loans.Payment, error) {
	if err := validation.ValidateLoanTerms(terms); err != nil {
		return nil, err
	}
	return loans.Schedule(terms), nil
}

// Finance validates a vehicle financing request and amortizes the net amount.
func (e *Engine) Finance(ctx context.Context, f loans.VehicleFinancing) (loans.FinancingResult, string, error) {
	if err := validation.ValidateFinancing(f); err != nil {
		return loans.FinancingResult{}, "", err
	}
	result := loans.FinanceVehicle(f)
	return result, e.record(ctx, store.KindFinancing, "", f, result), nil
}

// Qualify evaluates an applicant. Without a positive income the result is
// not yet calculated and nothing is journaled.
func (e *Engine) Qualify(ctx context.Context, in qualification.Input) (qualification.Result, string, error) {
	if tier, ok := qualification.ParseCreditTier(string(in.CreditTier)); ok {
		in.CreditTier = tier
	}
	if status, ok := qualification.ParseEmploymentStatus(string(in.EmploymentStatus)); ok {
		in.EmploymentStatus = status
	}
	if err := validation.ValidateQualification(in); err != nil {
		return qualification.Result{}, "", err
	}

	result := qualification.Qualify(in)
	verdict, ok := result.Verdict()
	if !ok {
		return result, "", nil
	}
	e.logger.Debug("applicant assessed",
		zap.String("op", "engine.Qualify"),
		zap.String("verdict", string(verdict)),
	)
	return result, e.record(ctx, store.KindQualification, "", in, result), nil
}

// ShippingRequest asks for a shipping quote. VehiclePrice, when positive,
// adds the landed cost. Currency, when set, adds a display total in that
// currency.
type ShippingRequest struct {
	Destination  string  `json:"destination"`
	SizeClass    string  `json:"sizeClass"`
	VehiclePrice float64 `json:"vehiclePrice,omitempty"`
	Currency     string  `json:"currency,omitempty"`
}

// ShippingEstimate wraps a quote. Quote is nil for an unknown destination.
type ShippingEstimate struct {
	Quote      *shipping.Quote `json:"quote"`
	LandedCost float64         `json:"landedCost,omitempty"`
	Display    string          `json:"display,omitempty"`
}

// Ship estimates shipping. An unknown destination is not an error.
func (e *Engine) Ship(ctx context.Context, req ShippingRequest) (ShippingEstimate, string, error) {
	if err := validation.ValidateAmount("vehiclePrice", req.VehiclePrice); err != nil {
		return ShippingEstimate{}, "", err
	}
	if req.SizeClass != "" {
		if _, ok := shipping.LookupSizeClass(req.SizeClass); !ok {
			e.logger.Warn("unknown vehicle size class priced as sedan",
				zap.String("op", "engine.Ship"),
				zap.String("sizeClass", req.SizeClass),
			)
		}
	}

	quote, ok := shipping.Estimate(req.Destination, req.SizeClass)
	if !ok {
		return ShippingEstimate{}, "", nil
	}

	estimate := ShippingEstimate{Quote: &quote}
	total := quote.Total
	if req.VehiclePrice > 0 {
		estimate.LandedCost = shipping.LandedCost(req.VehiclePrice, quote)
		total = estimate.LandedCost
	}
	displayCurrency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if displayCurrency != "" {
		estimate.Display = e.rates.Format(e.rates.Convert(total, constants.BaseCurrency, displayCurrency), displayCurrency)
	}
	return estimate, e.record(ctx, store.KindShipping, displayCurrency, req, estimate), nil
}

// Commission computes a commission, resolving an omitted percentage to the
// role default.
func (e *Engine) Commission(ctx context.Context, in commission.Input) (commission.Result, string, error) {
	if role, ok := commission.ParseRole(string(in.Role)); ok {
		in.Role = role
	}
	if err := validation.ValidateCommission(in); err != nil {
		return commission.Result{}, "", err
	}
	result := commission.Calculate(in)
	return result, e.record(ctx, store.KindCommission, "", in, result), nil
}

// record journals a quote and returns its ID. Journal failures are logged
// and do not fail the calculation.
func (e *Engine) record(ctx context.Context, kind store.Kind, displayCurrency string, request, result interface{}) string {
	if e.journal == nil {
		return ""
	}
	q, err := e.journal.Save(ctx, kind, displayCurrency, request, result)
	if err != nil {
		e.logger.Error("failed to journal quote",
			zap.String("op", "engine.record"),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return ""
	}
	return q.ID
}
