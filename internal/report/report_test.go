package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/contactkeval/option-mc/internal/simulate"
)

func runFixture(t *testing.T) *simulate.Result {
	t.Helper()
	cfg := simulate.Config{
		Spot:    100,
		Strike:  105,
		Rate:    0.03,
		Vol:     0.4,
		Expiry:  0.25,
		Samples: 5000,
		Bins:    10,
		Seed:    3,
	}
	res, err := simulate.NewEngine(&cfg, nil).Run()
	if err != nil {
		t.Fatalf("fixture run failed: %v", err)
	}
	return res
}

func TestWriteJSON(t *testing.T) {
	res := runFixture(t)
	dir := t.TempDir()

	if err := WriteJSON(res, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "result.json"))
	if err != nil {
		t.Fatalf("reading result.json: %v", err)
	}
	var back simulate.Result
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("result.json is not valid JSON: %v", err)
	}
	if back.Samples != res.Samples {
		t.Fatalf("round-trip lost sample count: %d vs %d", back.Samples, res.Samples)
	}
	if !back.Estimate.Equal(res.Estimate) {
		t.Fatalf("round-trip changed estimate: %v vs %v", back.Estimate, res.Estimate)
	}
}

func TestWriteCSV(t *testing.T) {
	res := runFixture(t)
	dir := t.TempDir()

	if err := WriteCSV(res.Summary.Histogram, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "histogram.csv"))
	if err != nil {
		t.Fatalf("opening histogram.csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing histogram.csv: %v", err)
	}
	// header + one row per bin
	if len(rows) != len(res.Summary.Histogram)+1 {
		t.Fatalf("expected %d rows, got %d", len(res.Summary.Histogram)+1, len(rows))
	}
	if rows[0][0] != "bin_low" {
		t.Fatalf("unexpected header %v", rows[0])
	}
}
