package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"keyword-planner-go/internal/service"
	"keyword-planner-go/pkg/planner"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: application panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := service.Options{}

	cmd := &cobra.Command{
		Use:   "keyword-planner",
		Short: "Fetch Google Ads keyword ideas for a CSV of keywords",
		Long: "Reads keywords from a CSV file, queries the Google Ads keyword planner in\n" +
			"chunks and writes search volume, competition and bid estimates to a CSV file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", getEnvOrDefault("KEYWORD_PLANNER_CONFIG", "config.yaml"), "Path to the YAML config (env: KEYWORD_PLANNER_CONFIG)")
	cmd.Flags().StringVar(&opts.InputPath, "input", getEnvOrDefault("KEYWORD_PLANNER_INPUT", "keywords.csv"), "CSV file with a keyword column (env: KEYWORD_PLANNER_INPUT)")
	cmd.Flags().StringVar(&opts.OutputPath, "output", getEnvOrDefault("KEYWORD_PLANNER_OUTPUT", "keyword_data.csv"), "Destination CSV for keyword ideas (env: KEYWORD_PLANNER_OUTPUT)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", getEnvBoolOrDefault("DEBUG", false), "Enable debug logging (env: DEBUG)")

	return cmd
}

func run(cmd *cobra.Command, opts service.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := service.NewRunner().Run(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted, partial results were kept.")
			if result != nil {
				printSummary(cmd, result)
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %v\n", err)
		return err
	}

	if !result.Written {
		fmt.Fprintln(cmd.OutOrStdout(), "No keywords to process, no output written.")
		return nil
	}
	printSummary(cmd, result)
	return nil
}

func printSummary(cmd *cobra.Command, result *service.Result) {
	out := cmd.OutOrStdout()
	s := result.Summary
	if s == nil {
		s = &planner.Summary{}
	}

	fmt.Fprintf(out, "\n=== Keyword Planner Results ===\n")
	fmt.Fprintf(out, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(out, "Keywords: %d\n", s.Keywords)
	fmt.Fprintf(out, "Chunks: %d (%d failed)\n", s.Chunks, len(s.Failures))
	fmt.Fprintf(out, "Ideas saved: %d\n", s.Rows)
	fmt.Fprintf(out, "Duration: %s\n", s.Duration.String())

	for _, f := range s.Failures {
		fmt.Fprintf(out, "   Chunk %d failed (%d keywords): %v\n", f.Index, len(f.Keywords), f.Err)
	}

	fmt.Fprintf(out, "\nKeyword data saved to %s\n", result.OutputPath)
}
