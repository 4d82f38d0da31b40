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

// PrintEvents outputs the ranked event counts, dispatching on the
// configured output format.
func PrintEvents(result *schema.EventsResult, cfg *contract.Config, duration time.Duration) error {
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
			return writeCSVWithHeader(w, []string{"rank", "name", "count", "share_pct"}, func(cw *csv.Writer) error {
				for i, nc := range result.Top {
					rec := []string{
						strconv.Itoa(i + 1),
						nc.Name,
						strconv.Itoa(nc.Count),
						fmtFloat(sharePct(nc.Count, result.TotalEvents)),
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
		return parquet.WriteParquet(parquet.ConvertEventCounts(result.Kind, result.Top), cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEventsTable(result, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeEventsTable generates and writes the human-readable ranking.
func writeEventsTable(result *schema.EventsResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Name", "Count", "Share"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, nc := range result.Top {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			nc.Name,
			strconv.Itoa(nc.Count),
			fmtFloat(sharePct(nc.Count, result.TotalEvents)) + "%",
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing top %d %s events (total: %d, peak hour: %02d:00)\n",
		len(result.Top), result.Kind, result.TotalEvents, peakHour(result.ByHour)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Query completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// sharePct is an event's share of the total, as a percentage.
func sharePct(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
