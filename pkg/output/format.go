// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/mortgage-simulator/pkg/format"
	"github.com/iwvelando/mortgage-simulator/pkg/financing"
)

// Formatted holds the six result fields as displayed to the buyer.
type Formatted struct {
	FinancedAmount string `json:"financedAmount"`
	MonthlyPayment string `json:"monthlyPayment"`
	Subsidy        string `json:"subsidy"`
	DownPayment    string `json:"downPayment"`
	InterestRate   string `json:"interestRate"`
	TotalPaid      string `json:"totalPaid"`
	Advisory       string `json:"advisory,omitempty"`
}

// Format renders a result for display.
func Format(res financing.Result) Formatted {
	formatted := Formatted{
		FinancedAmount: format.Currency(res.FinancedAmount),
		MonthlyPayment: format.Currency(res.MonthlyPayment),
		Subsidy:        format.Currency(res.Subsidy),
		DownPayment:    format.Currency(res.DownPayment),
		InterestRate:   format.Percentage(res.AnnualRate),
		TotalPaid:      format.Currency(res.TotalPaid),
	}
	if res.Advisory != nil {
		formatted.Advisory = fmt.Sprintf("Attention: the installment represents %s of your income. The recommended maximum is %s.",
			format.ShortPercentage(res.Advisory.Percentage), format.ShortPercentage(res.Advisory.Threshold))
	}
	return formatted
}

type line struct {
	label string
	value string
}

func inputLines(in financing.Input) []line {
	dependents := "no"
	if in.HasDependents {
		dependents = "yes"
	}
	return []line{
		{"Property value", format.Currency(in.PropertyValue)},
		{"Gross income", format.Currency(in.GrossIncome)},
		{"Term", fmt.Sprintf("%d months", in.TermMonths)},
		{"Age", strconv.Itoa(in.Age)},
		{"FGTS", format.Currency(in.FGTSAmount)},
		{"Dependents", dependents},
	}
}

func resultLines(f Formatted) []line {
	return []line{
		{"Financed amount", f.FinancedAmount},
		{"Monthly payment", f.MonthlyPayment},
		{"Subsidy", f.Subsidy},
		{"Down payment", f.DownPayment},
		{"Interest rate", f.InterestRate},
		{"Total paid", f.TotalPaid},
	}
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, in financing.Input, res financing.Result) error {
	formatted := Format(res)

	if _, err := fmt.Fprintf(w, "--- Simulation input ---\n"); err != nil {
		return err
	}
	for _, l := range inputLines(in) {
		if _, err := fmt.Fprintf(w, "%-16s| %s\n", l.label, l.value); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n--- Simulation result ---\n"); err != nil {
		return err
	}
	for _, l := range resultLines(formatted) {
		if _, err := fmt.Fprintf(w, "%-16s| %s\n", l.label, l.value); err != nil {
			return err
		}
	}

	if formatted.Advisory != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", formatted.Advisory); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{
	"property_value", "gross_income", "term_months", "age", "fgts_amount", "has_dependents",
	"financed_amount", "monthly_payment", "subsidy", "down_payment", "annual_rate", "total_paid",
	"income_ratio", "advisory",
}

// CsvFormat writes a header and one record in comma-separated value format.
func CsvFormat(w io.Writer, in financing.Input, res financing.Result) error {
	advisory := ""
	if res.Advisory != nil {
		advisory = res.Advisory.Message
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	if err := cw.Write([]string{
		format.NumericCurrency(in.PropertyValue),
		format.NumericCurrency(in.GrossIncome),
		strconv.Itoa(in.TermMonths),
		strconv.Itoa(in.Age),
		format.NumericCurrency(in.FGTSAmount),
		strconv.FormatBool(in.HasDependents),
		format.NumericCurrency(res.FinancedAmount),
		format.NumericCurrency(res.MonthlyPayment),
		format.NumericCurrency(res.Subsidy),
		format.NumericCurrency(res.DownPayment),
		strconv.FormatFloat(res.AnnualRate, 'f', -1, 64),
		format.NumericCurrency(res.TotalPaid),
		strconv.FormatFloat(res.IncomeRatio, 'f', 4, 64),
		advisory,
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Report is the JSON document written by JSONFormat.
type Report struct {
	Input     financing.Input  `json:"input"`
	Result    financing.Result `json:"result"`
	Formatted Formatted        `json:"formatted"`
}

// JSONFormat writes the input, the raw result and its formatted rendering.
func JSONFormat(w io.Writer, in financing.Input, res financing.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Report{Input: in, Result: res, Formatted: Format(res)})
}
