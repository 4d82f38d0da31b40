package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/internal/parquet"
	"github.com/endora-app/endoscope/schema"
)

// PrintRetention outputs a single cohort's retention curve, dispatching on
// the configured output format. A guard rejection renders as a message, not
// as an empty table; JSON carries it in the error field.
func PrintRetention(result *schema.RetentionResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		fmtFloat, _ := createFormatters(cfg.Precision)
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"day", "retention_pct", "label"}, func(cw *csv.Writer) error {
				for _, p := range result.Curve {
					rec := []string{
						strconv.Itoa(p.Day),
						fmtFloat(p.RetentionPct),
						contract.GetPlainLabel(p.RetentionPct),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg.OutputFile, "parquet"); err != nil {
			return err
		}
		win := schema.CohortWindow{StartDate: result.PeriodStart, EndDate: result.PeriodEnd}
		return parquet.WriteParquet(parquet.ConvertRetention(win, *result), cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRetentionTable(result, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRetentionTable generates and writes the human-readable curve.
func writeRetentionTable(result *schema.RetentionResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	if result.Error != "" {
		_, err := fmt.Fprintf(writer, "Retention unavailable for %s to %s: %s\n",
			result.PeriodStart, result.PeriodEnd, result.Error)
		return err
	}
	if result.CohortSize == 0 {
		_, err := fmt.Fprintf(writer, "No signups between %s and %s\n",
			result.PeriodStart, result.PeriodEnd)
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Day", "Retention", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range result.Curve {
		data = append(data, []string{
			fmt.Sprintf("D%d", p.Day),
			fmtFloat(p.RetentionPct) + "%",
			contract.GetColorLabel(p.RetentionPct),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Cohort: %s to %s (%d users)\n",
		result.PeriodStart, result.PeriodEnd, result.CohortSize); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Query completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
