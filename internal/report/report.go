package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/option-mc/internal/pricing"
	"github.com/contactkeval/option-mc/internal/simulate"
)

func WriteJSON(res *simulate.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "result.json"), b, 0644)
}

// WriteCSV dumps the terminal-price histogram, one row per bin, for an
// external plotting tool to render.
func WriteCSV(bins []pricing.Bin, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "histogram.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	headers := []string{"bin_low", "bin_high", "count", "fraction"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, b := range bins {
		row := []string{fmt.Sprintf("%.4f", b.Low), fmt.Sprintf("%.4f", b.High), fmt.Sprintf("%d", b.Count), fmt.Sprintf("%.6f", b.Fraction)}
		_ = w.Write(row)
	}
	return nil
}
