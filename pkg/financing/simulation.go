// Package financing implements the mortgage simulation engine: bracket
// selection, the reconciliation of financed amount, subsidy, FGTS and down
// payment under the program caps, and the fixed-rate installment.
//
// Every function is pure. The bracket table is passed in read-only, so
// simulations may run concurrently once the table exists.
package financing

import (
	"math"

	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"github.com/iwvelando/mortgage-simulator/pkg/constants"
)

// Input holds the buyer's data for one simulation.
type Input struct {
	PropertyValue float64 `json:"propertyValue" yaml:"propertyValue" validate:"finite,gte=1000"`
	GrossIncome   float64 `json:"grossIncome" yaml:"grossIncome" validate:"finite,gte=100"`
	TermMonths    int     `json:"termMonths" yaml:"termMonths" validate:"gte=12,lte=420"`
	Age           int     `json:"age" yaml:"age" validate:"gte=18,lte=80"`
	FGTSAmount    float64 `json:"fgtsAmount" yaml:"fgtsAmount" validate:"finite,gte=0"`
	HasDependents bool    `json:"hasDependents" yaml:"hasDependents"`
}

// Advisory flags an installment that takes more than the recommended share
// of gross income. It never changes the computed values.
type Advisory struct {
	Percentage float64 `json:"percentage"`
	Threshold  float64 `json:"threshold"`
	Message    string  `json:"message"`
}

// Result holds the outcome of one simulation.
type Result struct {
	FinancedAmount float64          `json:"financedAmount"`
	MonthlyPayment float64          `json:"monthlyPayment"`
	Subsidy        float64          `json:"subsidy"`
	DownPayment    float64          `json:"downPayment"`
	AnnualRate     float64          `json:"annualRate"`
	MonthlyRate    float64          `json:"monthlyRate"`
	TotalPaid      float64          `json:"totalPaid"`
	IncomeRatio    float64          `json:"incomeRatio"`
	Advisory       *Advisory        `json:"advisory,omitempty"`
	Bracket        brackets.Bracket `json:"bracket"`
}

// Simulate runs a full simulation for an already validated input.
func Simulate(table *brackets.Table, in Input) (Result, error) {
	if table == nil {
		return Result{}, ErrTableNotLoaded
	}

	bracket, err := table.Select(in.GrossIncome)
	if err != nil {
		return Result{}, err
	}

	alloc := Reconcile(in, bracket)
	payment := MonthlyPayment(alloc.FinancedAmount, bracket.AnnualRate, in.TermMonths)
	ratio, advisory := CheckAffordability(payment, in.GrossIncome)

	return Result{
		FinancedAmount: alloc.FinancedAmount,
		MonthlyPayment: payment,
		Subsidy:        alloc.Subsidy,
		DownPayment:    alloc.DownPayment,
		AnnualRate:     bracket.AnnualRate,
		MonthlyRate:    bracket.AnnualRate / constants.MonthsPerYear,
		TotalPaid:      TotalPaid(payment, in.TermMonths, alloc.DownPayment, alloc.Subsidy),
		IncomeRatio:    ratio,
		Advisory:       advisory,
		Bracket:        bracket,
	}, nil
}

// Allocation splits the property value between financing, subsidy and down payment.
type Allocation struct {
	FinancedAmount float64
	Subsidy        float64
	DownPayment    float64
}

// Reconcile applies the program rules in order:
//  1. the subsidy follows the dependent status;
//  2. financing is capped by the bracket and by 90% of the property value;
//  3. the down payment covers whatever subsidy and FGTS do not;
//  4. a negative down payment is floored at zero and financing absorbs the rest;
//  5. financing above the bracket cap moves back onto the down payment.
func Reconcile(in Input, b brackets.Bracket) Allocation {
	subsidy := b.Subsidy(in.HasDependents)
	financed := math.Min(b.MaxFinanceable, in.PropertyValue*constants.MaxFinancedShare)
	down := in.PropertyValue - financed - subsidy - in.FGTSAmount

	if down < 0 {
		financed = math.Max(0, in.PropertyValue-subsidy-in.FGTSAmount)
		down = 0
	}

	if financed > b.MaxFinanceable {
		down += financed - b.MaxFinanceable
		financed = b.MaxFinanceable
	}

	return Allocation{
		FinancedAmount: financed,
		Subsidy:        subsidy,
		DownPayment:    down,
	}
}
