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

// PrintOverview outputs the activity overview, dispatching on the
// configured output format. JSON carries the full result; CSV and Parquet
// carry the chart-ready daily active series.
func PrintOverview(result *schema.OverviewResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"day", "active_users"}, func(cw *csv.Writer) error {
				for _, dc := range result.ActiveUsersByDay {
					if err := cw.Write([]string{dc.Day, strconv.Itoa(dc.Count)}); err != nil {
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
		return parquet.WriteParquet(parquet.ConvertDailyActives(result.ActiveUsersByDay), cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOverviewTable(result, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeOverviewTable generates and writes the human-readable overview.
func writeOverviewTable(result *schema.OverviewResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	s := result.Summary

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Daily active users", strconv.Itoa(s.CurrentDAU)},
		{"Weekly active users", strconv.Itoa(s.WeeklyActive)},
		{"Monthly active users", strconv.Itoa(s.MonthlyActive)},
		{"Stickiness", schema.FormatPct(float64(s.StickinessPct))},
		{"Returning users", strconv.Itoa(s.ReturningUsers)},
		{"Total sessions", strconv.Itoa(s.TotalSessions)},
		{"Avg session length", schema.FormatDurationMs(s.AvgSessionMs)},
		{"Avg daily active time", schema.FormatDurationMs(s.AvgDailyActiveMs)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(result.ActiveUsersByDay) > 0 {
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
		daily := tablewriter.NewWriter(writer)
		daily.Header([]string{"Day", "Active users"})
		var rows [][]string
		for _, dc := range result.ActiveUsersByDay {
			rows = append(rows, []string{dc.Day, strconv.Itoa(dc.Count)})
		}
		if err := daily.Bulk(rows); err != nil {
			return err
		}
		if err := daily.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Range: %s to %s, peak hour: %02d:00\n",
		s.RangeStart, s.RangeEnd, peakHour(result.SessionsByHour)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Query completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// peakHour returns the hour of day with the most session starts.
func peakHour(byHour [24]int) int {
	peak := 0
	for h, count := range byHour {
		if count > byHour[peak] {
			peak = h
		}
	}
	return peak
}
