// Package brackets holds the income-tiered financing table and the lookup
// that maps a gross income onto one of its rows.
package brackets

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoBracketFound is returned when a lookup runs against an empty table.
var ErrNoBracketFound = errors.New("no financing bracket found")

// Bracket is one income tier of the financing program. The JSON field names
// match the published financing_data.json records.
type Bracket struct {
	IncomeCeiling            float64 `json:"renda" yaml:"renda"`
	MaxFinanceable           float64 `json:"valor_max_financiado" yaml:"valor_max_financiado"`
	AnnualRate               float64 `json:"taxa_juros" yaml:"taxa_juros"`
	SubsidyWithDependents    float64 `json:"subsidio_com_dependente" yaml:"subsidio_com_dependente"`
	SubsidyWithoutDependents float64 `json:"subsidio_sem_dependente" yaml:"subsidio_sem_dependente"`
}

// Subsidy returns the subsidy granted by the bracket for the given dependent status.
func (b Bracket) Subsidy(hasDependents bool) float64 {
	if hasDependents {
		return b.SubsidyWithDependents
	}
	return b.SubsidyWithoutDependents
}

// Table is an immutable view of the bracket rows, ordered ascending by
// income ceiling.
type Table struct {
	rows []Bracket
}

// NewTable copies rows and sorts the copy by income ceiling. The caller's
// slice is left untouched.
func NewTable(rows []Bracket) *Table {
	sorted := make([]Bracket, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IncomeCeiling < sorted[j].IncomeCeiling
	})
	return &Table{rows: sorted}
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the ordered rows.
func (t *Table) Rows() []Bracket {
	if t == nil {
		return nil
	}
	rows := make([]Bracket, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Select returns the first bracket whose ceiling is at or above grossIncome.
// Incomes above every ceiling fall into the highest bracket.
func (t *Table) Select(grossIncome float64) (Bracket, error) {
	if t.Len() == 0 {
		return Bracket{}, ErrNoBracketFound
	}
	for _, row := range t.rows {
		if grossIncome <= row.IncomeCeiling {
			return row, nil
		}
	}
	return t.rows[len(t.rows)-1], nil
}

// Validate reports suspicious rows without rejecting the table.
func (t *Table) Validate() []string {
	var warnings []string
	if t.Len() == 0 {
		return []string{"financing table is empty; every simulation will fail"}
	}

	seen := make(map[float64]int, len(t.rows))
	for i, row := range t.rows {
		if prev, ok := seen[row.IncomeCeiling]; ok {
			warnings = append(warnings, fmt.Sprintf("rows %d and %d share income ceiling %.2f; only the first is reachable",
				prev, i, row.IncomeCeiling))
		} else {
			seen[row.IncomeCeiling] = i
		}

		if row.AnnualRate > 1 {
			warnings = append(warnings, fmt.Sprintf("row %d annual rate %.4f looks like a percentage; rates are fractions (0.08 = 8%%)",
				i, row.AnnualRate))
		}

		for name, value := range map[string]float64{
			"renda":                   row.IncomeCeiling,
			"valor_max_financiado":    row.MaxFinanceable,
			"taxa_juros":              row.AnnualRate,
			"subsidio_com_dependente": row.SubsidyWithDependents,
			"subsidio_sem_dependente": row.SubsidyWithoutDependents,
		} {
			if value < 0 || math.IsNaN(value) {
				warnings = append(warnings, fmt.Sprintf("row %d has invalid %s %v", i, name, value))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}
