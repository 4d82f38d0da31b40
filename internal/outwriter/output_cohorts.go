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

// PrintCohorts outputs the cohort comparison, dispatching on the
// configured output format. The merged grid is sparse: a cohort without a
// point for a day renders as "-" in text and as an empty CSV cell.
func PrintCohorts(result *schema.CohortComparison, cfg *contract.Config, duration time.Duration) error {
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
			header := []string{"day"}
			for _, c := range result.Cohorts {
				header = append(header, c.Cohort.Label)
			}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, row := range result.Merged {
					rec := []string{strconv.Itoa(row.Day)}
					for _, c := range result.Cohorts {
						if pct, ok := row.Values[c.Cohort.Label]; ok {
							rec = append(rec, fmtFloat(pct))
						} else {
							rec = append(rec, "")
						}
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
		return parquet.WriteParquet(parquet.ConvertCohortComparison(result.Cohorts), cfg.OutputFile)
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCohortTables(result, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeCohortTables writes the per-cohort summary followed by the merged
// retention grid.
func writeCohortTables(result *schema.CohortComparison, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	maxLabel := getMaxLabelWidth(cfg)

	summary := tablewriter.NewWriter(writer)
	summary.Header([]string{"Cohort", "Window", "Users", "Status"})
	var rows [][]string
	for _, c := range result.Cohorts {
		status := "ok"
		if c.Result.Error != "" {
			status = c.Result.Error
		} else if c.Result.CohortSize == 0 {
			status = "no signups"
		}
		rows = append(rows, []string{
			truncateLabel(c.Cohort.Label, maxLabel),
			c.Cohort.StartDate + " to " + c.Cohort.EndDate,
			strconv.Itoa(c.Result.CohortSize),
			status,
		})
	}
	if err := summary.Bulk(rows); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	if len(result.Merged) > 0 {
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
		grid := tablewriter.NewWriter(writer)
		header := []string{"Day"}
		for _, c := range result.Cohorts {
			if c.Result.Error != "" || len(c.Result.Curve) == 0 {
				continue
			}
			header = append(header, truncateLabel(c.Cohort.Label, maxLabel))
		}
		grid.Header(header)
		grid.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, row := range result.Merged {
			rec := []string{fmt.Sprintf("D%d", row.Day)}
			for _, c := range result.Cohorts {
				if c.Result.Error != "" || len(c.Result.Curve) == 0 {
					continue
				}
				if pct, ok := row.Values[c.Cohort.Label]; ok {
					rec = append(rec, fmtFloat(pct)+"%")
				} else {
					rec = append(rec, "-")
				}
			}
			data = append(data, rec)
		}
		if err := grid.Bulk(data); err != nil {
			return err
		}
		if err := grid.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Comparing %d cohorts\n", len(result.Cohorts)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Query completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
