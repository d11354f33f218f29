// Command redteam-mcp is the CLI front-end for the scan engine: it binds
// internal/config.Config to flags and environment variables, runs one
// scan, and reports the outcome with the documented exit-code contract.
// The engine itself is a library (internal/scanner.Run); this binary is
// one external collaborator of it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redteam-mcp/scanner/internal/config"
	"github.com/redteam-mcp/scanner/internal/constants"
	"github.com/redteam-mcp/scanner/internal/scanner"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "redteam-mcp [target]",
	Short: "Automated red-team scanner for MCP tool servers",
	Long: `redteam-mcp probes a Model-Context-Protocol tool server for common
vulnerability classes: path traversal, SSRF, command injection, denial of
service, schema confusion, weak authorization, and prompt injection.

Examples:
  redteam-mcp --transport stdio --command "python3 vulnerable_server.py"
  redteam-mcp --transport http --url http://127.0.0.1:8000/rpc --budget 100`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	godotenv.Load()

	// Load defaults from the bare environment first (env.Parse honors each
	// field's envDefault tag when the variable is unset), then let cobra
	// flags below override anything the caller passes explicitly.
	var err error
	cfg, err = config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "redteam-mcp: %v\n", err)
		os.Exit(1)
	}

	rootCmd.Flags().StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport kind: stdio or http")
	rootCmd.Flags().StringVar(&cfg.Command, "command", cfg.Command, "Subprocess command line for stdio transport")
	rootCmd.Flags().StringVar(&cfg.URL, "url", cfg.URL, "JSON-RPC endpoint for http transport (overrides positional argument)")
	rootCmd.Flags().IntVar(&cfg.Budget, "budget", cfg.Budget, "Maximum number of callTool invocations")
	rootCmd.Flags().Float64Var(&cfg.TimeoutSeconds, "timeout", cfg.TimeoutSeconds, "Per-call timeout in seconds")
	rootCmd.Flags().StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "Directory for transcript.jsonl, report.json, report.md")
	rootCmd.Flags().BoolVar(&cfg.IncludeLLMProbes, "include-llm-probes", cfg.IncludeLLMProbes, "Record that an external LLM-judge collaborator should also run")
	rootCmd.Flags().StringVar(&cfg.FakeMetadataURL, "fake-metadata-url", cfg.FakeMetadataURL, "SSRF probe target URL")
	rootCmd.Flags().BoolVar(&cfg.LabSupportsAuthToggle, "lab-supports-auth-toggle", cfg.LabSupportsAuthToggle, "Enable AuthProbe against read_file (lab deployments only)")
	rootCmd.Flags().Bool("verbose", false, "Enable verbose (debug-level) logging to stderr")

	viper.BindPFlag("url", rootCmd.Flags().Lookup("url"))
	viper.BindPFlag("command", rootCmd.Flags().Lookup("command"))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("REDTEAM_MCP")
}

func runScan(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if cfg.Transport == constants.TransportHTTP && cfg.URL == "" && len(args) > 0 {
		cfg.URL = args[0]
	}
	if cfg.URL == "" {
		cfg.URL = viper.GetString("url")
	}
	if cfg.Command == "" {
		cfg.Command = viper.GetString("command")
	}

	report, err := scanner.Run(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "scan %s complete: %d tools discovered, %d tests run, %d findings\n",
		report.Summary.ScanID, report.Summary.ToolCount, report.Summary.TestsRun, len(report.Findings))
	fmt.Fprintf(os.Stdout, "report written to %s/%s and %s/%s\n",
		cfg.OutDir, constants.ReportJSONFileName, cfg.OutDir, constants.ReportMDFileName)

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "redteam-mcp: %v\n", err)
		os.Exit(1)
	}
}
