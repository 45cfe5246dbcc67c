package loans

// VehicleFinancing describes a plain vehicle purchase financed over a term.
type VehicleFinancing struct {
	VehiclePrice      float64 `json:"vehiclePrice"`
	DownPayment       float64 `json:"downPayment"`
	TradeInValue      float64 `json:"tradeInValue"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
}

// FinancingResult is the amortization of the financed amount.
type FinancingResult struct {
	AmortizationResult
	LoanAmount float64 `json:"loanAmount"`
	// TotalCost is everything paid for the vehicle: the down payment, the
	// trade-in credit and every loan payment.
	TotalCost float64 `json:"totalCost"`
}

// LoanAmount nets the down payment and trade-in out of the vehicle price,
// never going below zero.
func (f VehicleFinancing) LoanAmount() float64 {
	amount := f.VehiclePrice - f.DownPayment - f.TradeInValue
	if amount < 0 {
		return 0
	}
	return amount
}

// Terms returns the loan terms for the financed amount.
func (f VehicleFinancing) Terms() LoanTerms {
	return LoanTerms{
		Principal:         f.LoanAmount(),
		AnnualRatePercent: f.AnnualRatePercent,
		TermMonths:        f.TermMonths,
	}
}

// FinanceVehicle amortizes the amount left after down payment and trade-in.
func FinanceVehicle(f VehicleFinancing) FinancingResult {
	result := Amortize(f.Terms())
	return FinancingResult{
		AmortizationResult: result,
		LoanAmount:         f.LoanAmount(),
		TotalCost:          f.DownPayment + f.TradeInValue + result.TotalOfPayments,
	}
}
