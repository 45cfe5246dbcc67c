package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iwvelando/broker-engine/internal/store"
	"github.com/iwvelando/broker-engine/pkg/commission"
	"github.com/iwvelando/broker-engine/pkg/currency"
	"github.com/iwvelando/broker-engine/pkg/loans"
	"github.com/iwvelando/broker-engine/pkg/qualification"
	"github.com/iwvelando/broker-engine/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJournal struct {
	kinds []store.Kind
	err   error
}

func (j *recordingJournal) Save(_ context.Context, kind store.Kind, currency string, _, _ interface{}) (store.Quote, error) {
	if j.err != nil {
		return store.Quote{}, j.err
	}
	j.kinds = append(j.kinds, kind)
	return store.Quote{ID: "quote-" + string(kind), Kind: kind, Currency: currency}, nil
}

func TestAmortizeJournals(t *testing.T) {
	j := &recordingJournal{}
	e := New(nil, currency.DefaultTable, j)

	result, quoteID, err := e.Amortize(context.Background(), loans.LoanTerms{Principal: 20000, AnnualRatePercent: 6, TermMonths: 60})
	require.NoError(t, err)
	assert.InDelta(t, 386.66, result.MonthlyPayment, 0.01)
	assert.Equal(t, "quote-amortization", quoteID)
	assert.Equal(t, []store.Kind{store.KindAmortization}, j.kinds)
}

func TestAmortizeRejectsBadTerms(t *testing.T) {
	j := &recordingJournal{}
	e := New(nil, currency.DefaultTable, j)

	_, _, err := e.Amortize(context.Background(), loans.LoanTerms{Principal: 20000, AnnualRatePercent: 6, TermMonths: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrInvalidInput))
	assert.Empty(t, j.kinds)
}

func TestJournalFailureIsNotFatal(t *testing.T) {
	e := New(nil, currency.DefaultTable, &recordingJournal{err: errors.New("disk full")})

	result, quoteID, err := e.Commission(context.Background(), commission.Input{DealAmount: 10000, Role: "Broker"})
	require.NoError(t, err)
	assert.Equal(t, "", quoteID)
	assert.Equal(t, 300.0, result.CommissionAmount)
	assert.Equal(t, commission.Broker, result.Role)
}

func TestConvertPermissiveAndStrict(t *testing.T) {
	e := New(nil, currency.DefaultTable, nil)

	got, _, err := e.Convert(context.Background(), ConversionRequest{Amount: 100, From: "cad", To: "zzz"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Converted)
	assert.Equal(t, "ZZZ", got.To)

	strict := New(nil, currency.DefaultTable.WithPolicy(currency.Strict), nil)
	_, _, err = strict.Convert(context.Background(), ConversionRequest{Amount: 100, From: "CAD", To: "ZZZ"})
	assert.True(t, errors.Is(err, currency.ErrUnknownCurrency))

	got, _, err = strict.Convert(context.Background(), ConversionRequest{Amount: 1000, From: "CAD", To: "XOF"})
	require.NoError(t, err)
	assert.InDelta(t, 400000, got.Converted, 1e-6)
	assert.Equal(t, "CFA 400,000", got.Display)
}

func TestQualifyWithoutIncome(t *testing.T) {
	j := &recordingJournal{}
	e := New(nil, currency.DefaultTable, j)

	in := qualification.Input{
		VehiclePrice:       20000,
		DownPaymentPercent: 20,
		LoanTermMonths:     60,
		CreditTier:         "GOOD",
		EmploymentStatus:   "employed",
	}
	result, quoteID, err := e.Qualify(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, result.Calculated())
	assert.Empty(t, quoteID)
	assert.Empty(t, j.kinds)

	in.MonthlyIncome = 5000
	result, quoteID, err = e.Qualify(context.Background(), in)
	require.NoError(t, err)
	verdict, ok := result.Verdict()
	require.True(t, ok)
	assert.Equal(t, qualification.LikelyApproved, verdict)
	assert.Equal(t, "quote-qualification", quoteID)
}

func TestShipUnknownDestination(t *testing.T) {
	j := &recordingJournal{}
	e := New(nil, currency.DefaultTable, j)

	estimate, quoteID, err := e.Ship(context.Background(), ShippingRequest{Destination: "FR", SizeClass: "sedan"})
	require.NoError(t, err)
	assert.Nil(t, estimate.Quote)
	assert.Empty(t, quoteID)
	assert.Empty(t, j.kinds)
}

func TestShipLandedCostAndDisplay(t *testing.T) {
	e := New(nil, currency.DefaultTable, nil)

	estimate, _, err := e.Ship(context.Background(), ShippingRequest{
		Destination:  "sn",
		SizeClass:    "SUV",
		VehiclePrice: 15000,
		Currency:     "CAD",
	})
	require.NoError(t, err)
	require.NotNil(t, estimate.Quote)
	assert.Equal(t, 5038.0, estimate.Quote.Total)
	assert.Equal(t, 20038.0, estimate.LandedCost)
	assert.Equal(t, "$20,038", estimate.Display)
}

func TestFinanceWithStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, nil, filepath.Join(t.TempDir(), "engine.db"), true)
	require.NoError(t, err)
	defer s.Close()

	e := New(nil, currency.DefaultTable, s)
	result, quoteID, err := e.Finance(ctx, loans.VehicleFinancing{
		VehiclePrice:      25000,
		DownPayment:       3000,
		TradeInValue:      2000,
		AnnualRatePercent: 6,
		TermMonths:        60,
	})
	require.NoError(t, err)
	assert.Equal(t, 20000.0, result.LoanAmount)

	q, err := s.Get(ctx, quoteID)
	require.NoError(t, err)
	assert.Equal(t, store.KindFinancing, q.Kind)
}

func TestScheduleValidates(t *testing.T) {
	e := New(nil, currency.DefaultTable, nil)

	_, err := e.Schedule(context.Background(), loans.LoanTerms{Principal: -1, TermMonths: 12})
	assert.Error(t, err)

	schedule, err := e.Schedule(context.Background(), loans.LoanTerms{Principal: 1200, TermMonths: 12})
	require.NoError(t, err)
	assert.Len(t, schedule, 12)
}
