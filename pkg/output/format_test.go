package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-simulator/pkg/financing"
	"github.com/iwvelando/mortgage-simulator/pkg/testutil"
)

func simulate(t *testing.T, in financing.Input) financing.Result {
	t.Helper()
	res, err := financing.Simulate(testutil.SampleTable(), in)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	return res
}

func flaggedInput() financing.Input {
	return financing.Input{PropertyValue: 200000, GrossIncome: 3000, TermMonths: 360, Age: 35, FGTSAmount: 5000}
}

func TestFormat(t *testing.T) {
	formatted := Format(simulate(t, flaggedInput()))

	want := Formatted{
		FinancedAmount: "R$ 150.000,00",
		MonthlyPayment: "R$ 1.100,65",
		Subsidy:        "R$ 20.000,00",
		DownPayment:    "R$ 25.000,00",
		InterestRate:   "8.00%",
		TotalPaid:      "R$ 441.232,87",
	}
	advisory := formatted.Advisory
	formatted.Advisory = ""
	if formatted != want {
		t.Errorf("Format() = %+v, expected %+v", formatted, want)
	}
	if !strings.Contains(advisory, "36.7%") || !strings.Contains(advisory, "30.0%") {
		t.Errorf("advisory %q should carry the ratio and the threshold", advisory)
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, flaggedInput(), simulate(t, flaggedInput())); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"--- Simulation input ---",
		"--- Simulation result ---",
		"Financed amount",
		"R$ 150.000,00",
		"360 months",
		"Attention:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyFormat() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyFormatWithoutAdvisory(t *testing.T) {
	in := flaggedInput()
	in.GrossIncome = 3999

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, in, simulate(t, in)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if strings.Contains(buf.String(), "Attention:") {
		t.Errorf("unexpected advisory in output:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, flaggedInput(), simulate(t, flaggedInput())); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one record, got %d rows", len(records))
	}
	if len(records[0]) != len(records[1]) {
		t.Fatalf("header has %d columns, record has %d", len(records[0]), len(records[1]))
	}

	row := map[string]string{}
	for i, name := range records[0] {
		row[name] = records[1][i]
	}
	if row["financed_amount"] != "150000.00" || row["monthly_payment"] != "1100.65" || row["annual_rate"] != "0.08" {
		t.Errorf("unexpected CSV record %v", row)
	}
	if row["advisory"] == "" {
		t.Errorf("expected advisory column to be filled")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, flaggedInput(), simulate(t, flaggedInput())); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if report.Input != flaggedInput() {
		t.Errorf("Input = %+v", report.Input)
	}
	if report.Result.FinancedAmount != 150000 || report.Result.Advisory == nil {
		t.Errorf("Result = %+v", report.Result)
	}
	if report.Formatted.TotalPaid != "R$ 441.232,87" {
		t.Errorf("Formatted.TotalPaid = %q", report.Formatted.TotalPaid)
	}
}

func TestPDFFormat(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	if err := PDFFormat(&buf, flaggedInput(), simulate(t, flaggedInput()), generated); err != nil {
		t.Fatalf("PDFFormat() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF document")
	}
}
