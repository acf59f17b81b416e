package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IdaCy/RNTupleTTreeChecker/cmd/checker"
	"github.com/IdaCy/RNTupleTTreeChecker/cmd/sources"
)

var (
	// Source flags
	checkTreeFile   string
	checkNTupleFile string
	checkTreeName   string
	checkNTupleName string

	// S3 flags (shared by both sources)
	checkS3Endpoint  string
	checkS3Region    string
	checkS3AccessKey string
	checkS3SecretKey string

	// Output flags
	checkVerbose      bool
	checkOutputFormat string
	checkOutputFile   string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare a row-oriented dataset against its columnar counterpart",
	Long: `Compare a TTree-style row-oriented dataset against an RNTuple-style
columnar dataset: entry counts, field catalogs, resolved types, collection
element totals, and pooled value distributions. Data disagreements are
reported, not fatal; the command fails only when a source cannot be read.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runCheck(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkTreeFile, "ttree-file", "t", "", "location of the row-oriented dataset: .jsonl file, postgres:// URL, or s3:// object (required)")
	checkCmd.Flags().StringVarP(&checkNTupleFile, "rntuple-file", "r", "", "location of the columnar dataset: .parquet file or s3:// object (required)")
	checkCmd.Flags().StringVar(&checkTreeName, "ttree-name", "", "dataset name on the row-oriented side (required)")
	checkCmd.Flags().StringVar(&checkNTupleName, "rntuple-name", "", "dataset name on the columnar side (required)")

	checkCmd.Flags().StringVar(&checkS3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL for s3:// locations")
	checkCmd.Flags().StringVar(&checkS3Region, "s3-region", "auto", "S3 region")
	checkCmd.Flags().StringVar(&checkS3AccessKey, "s3-access-key", "", "S3 access key")
	checkCmd.Flags().StringVar(&checkS3SecretKey, "s3-secret-key", "", "S3 secret key")

	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "show every comparison section, not just discrepancies")
	checkCmd.Flags().StringVar(&checkOutputFormat, "output-format", "text", "output format: text, json")
	checkCmd.Flags().StringVar(&checkOutputFile, "output-file", "", "output file path (default: stdout)")

	_ = viper.BindPFlag("check.ttree_file", checkCmd.Flags().Lookup("ttree-file"))
	_ = viper.BindPFlag("check.rntuple_file", checkCmd.Flags().Lookup("rntuple-file"))
	_ = viper.BindPFlag("check.ttree_name", checkCmd.Flags().Lookup("ttree-name"))
	_ = viper.BindPFlag("check.rntuple_name", checkCmd.Flags().Lookup("rntuple-name"))
	_ = viper.BindPFlag("check.s3.endpoint", checkCmd.Flags().Lookup("s3-endpoint"))
	_ = viper.BindPFlag("check.s3.region", checkCmd.Flags().Lookup("s3-region"))
	_ = viper.BindPFlag("check.s3.access_key", checkCmd.Flags().Lookup("s3-access-key"))
	_ = viper.BindPFlag("check.s3.secret_key", checkCmd.Flags().Lookup("s3-secret-key"))
	_ = viper.BindPFlag("check.verbose", checkCmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("check.output_format", checkCmd.Flags().Lookup("output-format"))
	_ = viper.BindPFlag("check.output_file", checkCmd.Flags().Lookup("output-file"))
}

func runCheck(cmd *cobra.Command) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n❌ PANIC: %v\n", r)
			os.Exit(1)
		}
	}()

	// Helper function to get config value: use flag if set, otherwise use viper, fallback to flag default
	getStringConfig := func(flagValue string, flagName string, viperKey string) string {
		if flag := cmd.Flags().Lookup(flagName); flag != nil && flag.Changed {
			return flagValue
		}
		if viperValue := viper.GetString(viperKey); viperValue != "" {
			return viperValue
		}
		return flagValue
	}

	config := &CheckConfig{
		TreeFile:   getStringConfig(checkTreeFile, "ttree-file", "check.ttree_file"),
		NTupleFile: getStringConfig(checkNTupleFile, "rntuple-file", "check.rntuple_file"),
		TreeName:   getStringConfig(checkTreeName, "ttree-name", "check.ttree_name"),
		NTupleName: getStringConfig(checkNTupleName, "rntuple-name", "check.rntuple_name"),
		S3: S3Config{
			Endpoint:  getStringConfig(checkS3Endpoint, "s3-endpoint", "check.s3.endpoint"),
			Region:    getStringConfig(checkS3Region, "s3-region", "check.s3.region"),
			AccessKey: getStringConfig(checkS3AccessKey, "s3-access-key", "check.s3.access_key"),
			SecretKey: getStringConfig(checkS3SecretKey, "s3-secret-key", "check.s3.secret_key"),
		},
		Verbose:      checkVerbose || viper.GetBool("check.verbose"),
		OutputFormat: getStringConfig(checkOutputFormat, "output-format", "check.output_format"),
		OutputFile:   getStringConfig(checkOutputFile, "output-file", "check.output_file"),
		Debug:        viper.GetBool("debug"),
		LogFormat:    viper.GetString("log_format"),
	}

	// Initialize logger
	initLogger(config.Debug, config.LogFormat)

	logger.Info("")
	logger.Info(fmt.Sprintf("🔍 RNTuple/TTree Checker v%s", Version))
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	printCheckConfig(config)

	if err := config.Validate(); err != nil {
		logger.Error(fmt.Sprintf("❌ Configuration error: %s", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// os.Exit skips deferred closes, so the check itself runs in a
	// function that returns; its defers remove any s3:// temp files
	// before we pick the exit code here
	report, err := executeCheck(ctx, config)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("")
			logger.Info("⚠️  Check cancelled by user")
			os.Exit(130)
		}
		logger.Error(fmt.Sprintf("❌ %s", err.Error()))
		os.Exit(1)
	}

	// Data disagreements are findings, not failures: the run still
	// completed, so the exit code stays zero either way
	logger.Info("")
	if report.Passed {
		logger.Info("✅ Check completed: datasets are equivalent")
	} else {
		logger.Info("⚠️  Check completed: discrepancies found")
	}
}

// executeCheck opens both sources, runs the comparison, and writes the
// report. Every return path closes whatever was opened.
func executeCheck(ctx context.Context, config *CheckConfig) (*checker.Report, error) {
	s3opts := sources.S3Options{
		Endpoint:  config.S3.Endpoint,
		Region:    config.S3.Region,
		AccessKey: config.S3.AccessKey,
		SecretKey: config.S3.SecretKey,
	}

	logger.Debug(fmt.Sprintf("Opening ttree source %s", config.TreeFile))
	tree, err := sources.Open(ctx, config.TreeFile, config.TreeName, s3opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open ttree source: %w", err)
	}
	defer tree.Close()

	logger.Debug(fmt.Sprintf("Opening rntuple source %s", config.NTupleFile))
	ntuple, err := sources.Open(ctx, config.NTupleFile, config.NTupleName, s3opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open rntuple source: %w", err)
	}
	defer ntuple.Close()

	engine := checker.NewChecker(tree, ntuple, config.TreeName, config.NTupleName, checker.Options{
		Logger: logger,
	})

	report, err := engine.Compare(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("check failed: %w", err)
	}

	if err := outputReport(report, config); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return report, nil
}

// printCheckConfig prints a table of configuration information
func printCheckConfig(config *CheckConfig) {
	logger.Info("")
	logger.Info("📋 Configuration:")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	logger.Info("  TTree side:")
	logger.Info(fmt.Sprintf("    File:              %s", config.TreeFile))
	logger.Info(fmt.Sprintf("    Name:              %s", config.TreeName))

	logger.Info("  RNTuple side:")
	logger.Info(fmt.Sprintf("    File:              %s", config.NTupleFile))
	logger.Info(fmt.Sprintf("    Name:              %s", config.NTupleName))

	if usesS3(config.TreeFile) || usesS3(config.NTupleFile) {
		logger.Info("  S3:")
		logger.Info(fmt.Sprintf("    Endpoint:          %s", config.S3.Endpoint))
		logger.Info(fmt.Sprintf("    Region:            %s", config.S3.Region))
		logger.Info(fmt.Sprintf("    Access Key:        %s", maskString(config.S3.AccessKey)))
	}

	logger.Info("  Output:")
	logger.Info(fmt.Sprintf("    Format:            %s", config.OutputFormat))
	if config.OutputFile != "" {
		logger.Info(fmt.Sprintf("    File:              %s", config.OutputFile))
	} else {
		logger.Info("    File:              stdout")
	}
	logger.Info(fmt.Sprintf("    Verbose:           %v", config.Verbose))

	logger.Info("  Settings:")
	logger.Info(fmt.Sprintf("    Debug:             %v", config.Debug))
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Info("")
}

// maskString masks a sensitive value for display
func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "***"
}
