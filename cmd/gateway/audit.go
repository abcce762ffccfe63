package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/audit"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/cli"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
)

var auditFlags struct {
	correlationID string
	route         string
	timeRange     string
	limit         int
	format        string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the request audit trail",
	Long: `Query the gateway's request audit trail.

Each proxied request leaves one record carrying its correlation ID,
route, client IP, upstream, status, latency, and byte count. The
correlation ID is the join key between a browser complaint and the
upstream call that served it.

Examples:
  # Show the 50 most recent requests
  gateway audit --limit 50

  # Follow one request chain
  gateway audit --correlation-id "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

  # Streamed videos in a time window, as JSON
  gateway audit --route video_stream \
    --time-range "2026-08-25T00:00:00Z/2026-08-26T00:00:00Z" --format json`,
	RunE: queryAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditFlags.correlationID, "correlation-id", "", "filter by correlation ID")
	auditCmd.Flags().StringVar(&auditFlags.route, "route", "", "filter by route name")
	auditCmd.Flags().StringVar(&auditFlags.timeRange, "time-range", "", "RFC3339 interval (start/end)")
	auditCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "maximum records to return")
	auditCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
}

func queryAudit(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	store, err := audit.NewSQLiteStore(cfg.Audit.SQLite)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("failed to open audit store: %w", err))
	}
	defer store.Close()

	query := &audit.Query{
		CorrelationID: auditFlags.correlationID,
		Route:         auditFlags.route,
		Limit:         auditFlags.limit,
	}

	if auditFlags.timeRange != "" {
		parts := strings.Split(auditFlags.timeRange, "/")
		if len(parts) != 2 {
			return fmt.Errorf("invalid time range format (expected: start/end)")
		}
		startTime, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		endTime, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		query.StartTime = &startTime
		query.EndTime = &endTime
	}

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}

	if len(records) == 0 {
		fmt.Println("No audit records found.")
		return nil
	}

	if cli.OutputFormat(auditFlags.format) == cli.FormatJSON {
		type jsonRecord struct {
			ID            string `json:"id"`
			Timestamp     string `json:"timestamp"`
			CorrelationID string `json:"correlation_id"`
			Route         string `json:"route"`
			Method        string `json:"method"`
			Path          string `json:"path"`
			ClientIP      string `json:"client_ip"`
			Upstream      string `json:"upstream"`
			Status        int    `json:"status"`
			LatencyMS     int64  `json:"latency_ms"`
			Bytes         int64  `json:"bytes"`
		}
		out := make([]jsonRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, jsonRecord{
				ID:            rec.ID,
				Timestamp:     rec.Timestamp.UTC().Format(time.RFC3339Nano),
				CorrelationID: rec.CorrelationID,
				Route:         rec.Route,
				Method:        rec.Method,
				Path:          rec.Path,
				ClientIP:      rec.ClientIP,
				Upstream:      rec.Upstream,
				Status:        rec.Status,
				LatencyMS:     rec.LatencyMS,
				Bytes:         rec.Bytes,
			})
		}
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, out)
	}

	fmt.Printf("Total records: %d\n\n", len(records))
	for _, rec := range records {
		fmt.Printf("%s  %-12s %-4s %-30s %3d  %5dms  %8dB  %s\n",
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.Route,
			rec.Method,
			rec.Path,
			rec.Status,
			rec.LatencyMS,
			rec.Bytes,
			rec.CorrelationID,
		)
	}
	return nil
}
