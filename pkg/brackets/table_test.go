package brackets

import (
	"strings"
	"testing"
)

func unsortedRows() []Bracket {
	return []Bracket{
		{IncomeCeiling: 8000, MaxFinanceable: 264000, AnnualRate: 0.0816, SubsidyWithDependents: 0, SubsidyWithoutDependents: 0},
		{IncomeCeiling: 2640, MaxFinanceable: 190000, AnnualRate: 0.0475, SubsidyWithDependents: 55000, SubsidyWithoutDependents: 50000},
		{IncomeCeiling: 4400, MaxFinanceable: 264000, AnnualRate: 0.07, SubsidyWithDependents: 30000, SubsidyWithoutDependents: 20000},
	}
}

func TestNewTableSortsCopy(t *testing.T) {
	rows := unsortedRows()
	table := NewTable(rows)

	if rows[0].IncomeCeiling != 8000 {
		t.Fatalf("NewTable() reordered the caller's slice: first ceiling = %v", rows[0].IncomeCeiling)
	}

	sorted := table.Rows()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].IncomeCeiling > sorted[i].IncomeCeiling {
			t.Fatalf("rows not ascending at %d: %v > %v", i, sorted[i-1].IncomeCeiling, sorted[i].IncomeCeiling)
		}
	}

	sorted[0].MaxFinanceable = -1
	if table.Rows()[0].MaxFinanceable == -1 {
		t.Errorf("Rows() exposed internal storage")
	}
}

func TestSelect(t *testing.T) {
	table := NewTable(unsortedRows())

	tests := []struct {
		name        string
		income      float64
		wantCeiling float64
	}{
		{"Lowest income", 100, 2640},
		{"Exactly on first ceiling", 2640, 2640},
		{"Just above first ceiling", 2640.01, 4400},
		{"Middle bracket", 3000, 4400},
		{"Top bracket", 7999, 8000},
		{"Above every ceiling falls back to last", 25000, 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Select(tt.income)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if got.IncomeCeiling != tt.wantCeiling {
				t.Errorf("Select(%v) ceiling = %v, expected %v", tt.income, got.IncomeCeiling, tt.wantCeiling)
			}
		})
	}
}

func TestSelectFirstMatchProperty(t *testing.T) {
	table := NewTable(unsortedRows())
	rows := table.Rows()

	for income := 100.0; income <= 10000; income += 37.5 {
		got, err := table.Select(income)
		if err != nil {
			t.Fatalf("Select(%v) error = %v", income, err)
		}

		want := rows[len(rows)-1]
		for _, row := range rows {
			if row.IncomeCeiling >= income {
				want = row
				break
			}
		}
		if got != want {
			t.Fatalf("Select(%v) = %+v, expected %+v", income, got, want)
		}
	}
}

func TestSelectEmptyTable(t *testing.T) {
	for name, table := range map[string]*Table{
		"empty": NewTable(nil),
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := table.Select(1000); err != ErrNoBracketFound {
				t.Errorf("Select() error = %v, expected ErrNoBracketFound", err)
			}
		})
	}
}

func TestSubsidy(t *testing.T) {
	b := Bracket{SubsidyWithDependents: 55000, SubsidyWithoutDependents: 50000}
	if got := b.Subsidy(true); got != 55000 {
		t.Errorf("Subsidy(true) = %v, expected 55000", got)
	}
	if got := b.Subsidy(false); got != 50000 {
		t.Errorf("Subsidy(false) = %v, expected 50000", got)
	}
}

func TestValidate(t *testing.T) {
	if warnings := NewTable(unsortedRows()).Validate(); len(warnings) != 0 {
		t.Errorf("expected no warnings for clean table, got %v", warnings)
	}

	if warnings := NewTable(nil).Validate(); len(warnings) != 1 {
		t.Errorf("expected one warning for empty table, got %v", warnings)
	}

	suspicious := NewTable([]Bracket{
		{IncomeCeiling: 2000, MaxFinanceable: 100000, AnnualRate: 8},
		{IncomeCeiling: 2000, MaxFinanceable: 100000, AnnualRate: 0.05},
		{IncomeCeiling: 3000, MaxFinanceable: -5, AnnualRate: 0.05},
	})
	joined := strings.Join(suspicious.Validate(), "\n")
	for _, want := range []string{"share income ceiling", "looks like a percentage", "invalid valor_max_financiado"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected warning containing %q, got:\n%s", want, joined)
		}
	}
}
