package financing

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-simulator/pkg/constants"
)

// MonthlyPayment calculates the fixed installment of a fully amortizing loan
// using the standard PMT formula.
func MonthlyPayment(financedAmount, annualRate float64, termMonths int) float64 {
	if financedAmount <= 0 || termMonths <= 0 {
		return 0
	}

	monthlyRate := annualRate / constants.MonthsPerYear
	if monthlyRate == 0 {
		// Without interest the principal is split evenly.
		return financedAmount / float64(termMonths)
	}

	factor := math.Pow(1+monthlyRate, float64(termMonths))
	return financedAmount * (monthlyRate * factor) / (factor - 1)
}

// TotalPaid sums every installment with the down payment and the subsidy.
// The subsidy is not paid by the buyer but is counted to stay consistent
// with previously published totals.
func TotalPaid(monthlyPayment float64, termMonths int, downPayment, subsidy float64) float64 {
	return monthlyPayment*float64(termMonths) + downPayment + subsidy
}

// CheckAffordability returns the installment-to-income ratio and an advisory
// when it exceeds constants.AffordabilityThreshold.
func CheckAffordability(monthlyPayment, grossIncome float64) (float64, *Advisory) {
	if grossIncome <= 0 {
		return 0, nil
	}

	ratio := monthlyPayment / grossIncome
	if ratio <= constants.AffordabilityThreshold {
		return ratio, nil
	}

	percentage := ratio * constants.PercentageMultiplier
	threshold := constants.AffordabilityThreshold * constants.PercentageMultiplier
	return ratio, &Advisory{
		Percentage: percentage,
		Threshold:  threshold,
		Message: fmt.Sprintf("installment represents %.1f%% of gross income; the recommended maximum is %.0f%%",
			percentage, threshold),
	}
}
