// Package testutil provides common fixtures for testing.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
)

// SampleRows returns a small bracket table in source order (not sorted).
func SampleRows() []brackets.Bracket {
	return []brackets.Bracket{
		{IncomeCeiling: 8000, MaxFinanceable: 264000, AnnualRate: 0.0816, SubsidyWithDependents: 0, SubsidyWithoutDependents: 0},
		{IncomeCeiling: 2640, MaxFinanceable: 190000, AnnualRate: 0.0475, SubsidyWithDependents: 55000, SubsidyWithoutDependents: 50000},
		{IncomeCeiling: 4000, MaxFinanceable: 150000, AnnualRate: 0.08, SubsidyWithDependents: 25000, SubsidyWithoutDependents: 20000},
		{IncomeCeiling: 4400, MaxFinanceable: 264000, AnnualRate: 0.07, SubsidyWithDependents: 15000, SubsidyWithoutDependents: 10000},
	}
}

// SampleTable returns SampleRows as a loaded table.
func SampleTable() *brackets.Table {
	return brackets.NewTable(SampleRows())
}

// WriteTableFile marshals rows into a financing_data.json file under dir and
// returns its path.
func WriteTableFile(t testing.TB, dir string, rows []brackets.Bracket) string {
	t.Helper()

	data, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("failed to marshal rows: %v", err)
	}

	path := filepath.Join(dir, "financing_data.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write table file: %v", err)
	}
	return path
}
