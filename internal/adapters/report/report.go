// Package report renders the ranked view as a plain-text table.
package report

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pixrank/pixrank/internal/domain/model"
)

// Render writes the ranking table to w, one row per photo, in the supplied
// order. Ranks are 1-based. Photos that have not played yet get an empty
// Win % cell; the percentage is undefined for them.
func Render(w io.Writer, photos []*model.Photo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Rank\tScore\tMatches\tWin %\tFilename")
	for i, p := range photos {
		winPct := ""
		if pct, ok := p.WinPercentage(); ok {
			winPct = fmt.Sprintf("%.2f", pct)
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%d\t%s\t%s\n", i+1, p.Score(), p.Matches(), winPct, p.Filename())
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteFile renders the ranking table into the file at path, replacing any
// previous report.
func WriteFile(path string, photos []*model.Photo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	if err := Render(f, photos); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
