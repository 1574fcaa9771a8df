package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chforecast"
	"chforecast/internal/logging"
)

var (
	onlyFuture bool
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "chforecast <db_name> <interval> [specific_tables]",
	Short: "Generate time-series forecasts for ClickHouse tables",
	Long: `chforecast fits a forecasting model to every numeric column of the tables in
a ClickHouse database and writes the predictions (estimate, lower and upper
bound) into companion bucket_forecast_* tables.

Connection settings are read from CLICKHOUSE_HOST, CLICKHOUSE_PORT,
CLICKHOUSE_USERNAME and CLICKHOUSE_PASSWORD.`,
	Args:          cobra.RangeArgs(2, 3),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().BoolVar(&onlyFuture, "only-future", false, "Only write predictions for dates after the last observed date")
	rootCmd.Flags().StringVar(&logFile, "log-file", logging.DefaultLogFile, "Path of the rotating log file")
}

func run(cmd *cobra.Command, args []string) error {
	database := args[0]

	interval, err := parseInterval(args[1])
	if err != nil {
		return err
	}

	var tables []string
	if len(args) == 3 {
		tables = splitTables(args[2])
	}

	logger := logging.NewRotatingLogger(logFile)
	defer func() { _ = logger.Sync() }()

	_, err = chforecast.Run(cmd.Context(), chforecast.Options{
		Database:   database,
		Interval:   interval,
		Tables:     tables,
		OnlyFuture: onlyFuture,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("forecast run aborted", zap.Error(err))
		return err
	}
	return nil
}

// parseInterval parses the forecast horizon argument.
func parseInterval(arg string) (int, error) {
	interval, err := strconv.Atoi(arg)
	if err != nil || interval <= 0 {
		return 0, fmt.Errorf("interval must be a positive number of days, got %q", arg)
	}
	return interval, nil
}

// splitTables parses the comma-separated table list argument, trimming
// whitespace and dropping empty entries.
func splitTables(arg string) []string {
	parts := strings.Split(arg, ",")
	tables := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tables = append(tables, p)
		}
	}
	return tables
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
