package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/broker-engine/internal/engine"
	"github.com/iwvelando/broker-engine/pkg/commission"
	"github.com/iwvelando/broker-engine/pkg/format"
	"github.com/iwvelando/broker-engine/pkg/loans"
	"github.com/iwvelando/broker-engine/pkg/output"
	"github.com/iwvelando/broker-engine/pkg/qualification"
	"github.com/spf13/cobra"
)

func money(v float64) string {
	return format.NumericCurrency(v)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func withQuoteID(fields []output.Field, quoteID string) []output.Field {
	if quoteID == "" {
		return fields
	}
	return append(fields, output.Field{Label: "Quote ID", Value: quoteID})
}

func newAmortizeCmd(a *app) *cobra.Command {
	var (
		terms    loans.LoanTerms
		schedule bool
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Compute the monthly payment and total interest of a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, closeFn, err := a.engine(cmd.Context(), save)
			if err != nil {
				return err
			}
			defer closeFn()

			result, quoteID, err := eng.Amortize(cmd.Context(), terms)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			output.Fields(w, a.conf.Output.Format, "Amortization", withQuoteID([]output.Field{
				{Label: "Principal", Value: money(terms.Principal)},
				{Label: "Annual rate", Value: percent(terms.AnnualRatePercent)},
				{Label: "Term (months)", Value: strconv.Itoa(terms.TermMonths)},
				{Label: "Monthly payment", Value: money(result.MonthlyPayment)},
				{Label: "Total interest", Value: money(result.TotalInterest)},
				{Label: "Total of payments", Value: money(result.TotalOfPayments)},
			}, quoteID))

			if schedule {
				payments, err := eng.Schedule(cmd.Context(), terms)
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				output.Schedule(w, a.conf.Output.Format, payments)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&terms.Principal, "principal", 0, "amount borrowed")
	cmd.Flags().Float64Var(&terms.AnnualRatePercent, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&terms.TermMonths, "term", 60, "term in months")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "also print the month-by-month schedule")
	cmd.Flags().BoolVar(&save, "save", false, "journal the quote")
	_ = cmd.MarkFlagRequired("principal")
	return cmd
}

func newFinanceCmd(a *app) *cobra.Command {
	var (
		f    loans.VehicleFinancing
		save bool
	)

	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Finance a vehicle net of down payment and trade-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, closeFn, err := a.engine(cmd.Context(), save)
			if err != nil {
				return err
			}
			defer closeFn()

			result, quoteID, err := eng.Finance(cmd.Context(), f)
			if err != nil {
				return err
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Vehicle Financing", withQuoteID([]output.Field{
				{Label: "Vehicle price", Value: money(f.VehiclePrice)},
				{Label: "Down payment", Value: money(f.DownPayment)},
				{Label: "Trade-in", Value: money(f.TradeInValue)},
				{Label: "Loan amount", Value: money(result.LoanAmount)},
				{Label: "Monthly payment", Value: money(result.MonthlyPayment)},
				{Label: "Total interest", Value: money(result.TotalInterest)},
				{Label: "Total cost", Value: money(result.TotalCost)},
			}, quoteID))
			return nil
		},
	}

	cmd.Flags().Float64Var(&f.VehiclePrice, "price", 0, "vehicle price")
	cmd.Flags().Float64Var(&f.DownPayment, "down", 0, "down payment amount")
	cmd.Flags().Float64Var(&f.TradeInValue, "trade-in", 0, "trade-in value")
	cmd.Flags().Float64Var(&f.AnnualRatePercent, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&f.TermMonths, "term", 60, "term in months")
	cmd.Flags().BoolVar(&save, "save", false, "journal the quote")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newQualifyCmd(a *app) *cobra.Command {
	var (
		in         qualification.Input
		tier       string
		employment string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "qualify",
		Short: "Pre-qualify an applicant for vehicle financing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.CreditTier = qualification.CreditTier(tier)
			in.EmploymentStatus = qualification.EmploymentStatus(employment)

			eng, closeFn, err := a.engine(cmd.Context(), save)
			if err != nil {
				return err
			}
			defer closeFn()

			result, quoteID, err := eng.Qualify(cmd.Context(), in)
			if err != nil {
				return err
			}
			assessment, ok := result.Assessment()
			if !ok {
				output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Pre-Qualification", []output.Field{
					{Label: "Verdict", Value: "not calculated (monthly income required)"},
				})
				return nil
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Pre-Qualification", withQuoteID([]output.Field{
				{Label: "Verdict", Value: string(assessment.Verdict)},
				{Label: "Reason", Value: assessment.ReasonKey},
				{Label: "Down payment", Value: money(assessment.DownPayment)},
				{Label: "Loan amount", Value: money(assessment.LoanAmount)},
				{Label: "APR", Value: percent(assessment.APR)},
				{Label: "Monthly payment", Value: money(assessment.MonthlyPayment)},
				{Label: "Debt-to-income", Value: strconv.FormatFloat(assessment.DebtToIncomeRatio, 'f', 1, 64) + "%"},
			}, quoteID))
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.VehiclePrice, "price", 0, "vehicle price")
	cmd.Flags().Float64Var(&in.DownPaymentPercent, "down-percent", 20, "down payment percent (10-50)")
	cmd.Flags().IntVar(&in.LoanTermMonths, "term", 60, "term in months")
	tiers := make([]string, 0, len(qualification.Tiers()))
	for _, t := range qualification.Tiers() {
		tiers = append(tiers, string(t))
	}
	cmd.Flags().StringVar(&tier, "tier", string(qualification.Good), "credit tier: "+strings.Join(tiers, ", "))
	cmd.Flags().Float64Var(&in.MonthlyIncome, "income", 0, "monthly income")
	cmd.Flags().StringVar(&employment, "employment", string(qualification.Employed), "employment status: employed, self-employed, retired, unemployed")
	cmd.Flags().BoolVar(&save, "save", false, "journal the quote")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		req  engine.ConversionRequest
		save bool
	)

	cmd := &cobra.Command{
		Use:   "convert <amount>",
		Short: "Convert an amount between currencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			req.Amount = amount

			eng, closeFn, err := a.engine(cmd.Context(), save)
			if err != nil {
				return err
			}
			defer closeFn()

			result, quoteID, err := eng.Convert(cmd.Context(), req)
			if err != nil {
				return err
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Conversion", withQuoteID([]output.Field{
				{Label: "Amount", Value: money(result.Amount) + " " + result.From},
				{Label: "Converted", Value: money(result.Converted) + " " + result.To},
				{Label: "Display", Value: result.Display},
			}, quoteID))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.From, "from", "CAD", "source currency code")
	cmd.Flags().StringVar(&req.To, "to", "CAD", "target currency code")
	cmd.Flags().BoolVar(&save, "save", false, "journal the quote")
	return cmd
}

func newRatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "List the currency rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rates := a.rates().Rates()
			fields := make([]output.Field, 0, len(rates))
			for _, r := range rates {
				fields = append(fields, output.Field{
					Label: r.Code,
					Value: fmt.Sprintf("%s (%s) %s per CAD", r.Name, r.Symbol, strconv.FormatFloat(r.RateFromBase, 'f', -1, 64)),
				})
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Rates", fields)
			return nil
		},
	}
}

func newShipCmd(a *app) *cobra.Command {
	var (
		req  engine.ShippingRequest
		save bool
	)

	cmd := &cobra.Command{
		Use:   "ship",
		Short: "Estimate shipping and landed cost to an African port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, closeFn, err := a.engine(cmd.Context(), save)
			if err != nil {
				return err
			}
			defer closeFn()

			estimate, quoteID, err := eng.Ship(cmd.Context(), req)
			if err != nil {
				return err
			}
			if estimate.Quote == nil {
				return fmt.Errorf("no shipping route to %q", req.Destination)
			}
			q := estimate.Quote
			fields := []output.Field{
				{Label: "Destination", Value: q.DestinationCode},
				{Label: "Size class", Value: q.VehicleSizeClass},
				{Label: "Ocean freight", Value: money(q.OceanFreight)},
				{Label: "Insurance", Value: money(q.Insurance)},
				{Label: "Port fees", Value: money(q.PortFees)},
				{Label: "Customs clearance", Value: money(q.CustomsClearance)},
				{Label: "Total", Value: money(q.Total)},
			}
			if estimate.LandedCost > 0 {
				fields = append(fields, output.Field{Label: "Landed cost", Value: money(estimate.LandedCost)})
			}
			if estimate.Display != "" {
				fields = append(fields, output.Field{Label: "Display", Value: estimate.Display})
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Shipping", withQuoteID(fields, quoteID))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Destination, "destination", "", "destination country code, e.g. SN")
	cmd.Flags().StringVar(&req.SizeClass, "size", "sedan", "vehicle size class: sedan, suv, truck, van, luxury")
	cmd.Flags().Float64Var(&req.VehiclePrice, "price", 0, "vehicle price for the landed cost")
	cmd.Flags().StringVar(&req.Currency, "currency", "", "display currency for the total")
	cmd.Flags().BoolVar(&save, "save", false, "journal the quote")
	_ = cmd.MarkFlagRequired("destination")
	return cmd
}

func newCommissionCmd(a *app) *cobra.Command {
	var (
		in   commission.Input
		pct  float64
		role string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "commission",
		Short: "Compute a broker or dealer commission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = commission.Role(role)
			if cmd.Flags().Changed("percentage") {
				in.Percentage = commission.Percent(pct)
			}

			eng, closeFn, err := a.engine(cmd.Context(), save)
			if err != nil {
				return err
			}
			defer closeFn()

			result, quoteID, err := eng.Commission(cmd.Context(), in)
			if err != nil {
				return err
			}
			presets := ""
			for i, p := range commission.Presets(result.Role) {
				if i > 0 {
					presets += ", "
				}
				presets += percent(p)
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Commission", withQuoteID([]output.Field{
				{Label: "Role", Value: string(result.Role)},
				{Label: "Deal amount", Value: money(result.DealAmount)},
				{Label: "Percentage", Value: percent(result.Percentage)},
				{Label: "Commission", Value: money(result.CommissionAmount)},
				{Label: "Presets", Value: presets},
			}, quoteID))
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.DealAmount, "amount", 0, "deal amount")
	cmd.Flags().Float64Var(&pct, "percentage", 0, "commission percent (omit to use the role default)")
	cmd.Flags().StringVar(&role, "role", string(commission.Broker), "role: broker or dealer")
	cmd.Flags().BoolVar(&save, "save", false, "journal the quote")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
