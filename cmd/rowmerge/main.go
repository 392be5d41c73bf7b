// rowmerge - collapse rows that share a key, merging the other columns
// Main entry point for the command line tool

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/spektr-org/rowmerge/internal/config"
	"github.com/spektr-org/rowmerge/internal/logger"
	"github.com/spektr-org/rowmerge/internal/ui"
)

var (
	version   = "0.3.0"
	buildDate = "dev"
	cfgFile   string
)

// flagValues mirror config.Config; only flags the user set override the file.
type flagValues struct {
	input           string
	output          string
	uniqueKey       string
	separator       string
	encoding        string
	breakOnErrors   string
	concatDelimiter string
	caseInsensitive bool
	schema          string
	saveSchema      string
	logLevel        string
	logFormat       string
	discover        bool
	preview         int
}

func main() {
	var fv flagValues

	rootCmd := &cobra.Command{
		Use:   "rowmerge",
		Short: "rowmerge - deduplicate CSV/XLSX rows on a key",
		Long: `rowmerge collapses rows that share a key into one row, merging every
other column with an operator you choose: concatenate, deduplicate,
split-deduplicate, sum, average, max, min, drop, or keep the first value.

Answer one question per column:
  rowmerge --filename contacts.csv --unique_key email

Replay the answers from a schema file:
  rowmerge --filename contacts.csv --unique_key email --schema contacts.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, fv)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	f := rootCmd.Flags()
	f.StringVarP(&fv.input, "filename", "f", "", "input CSV or XLSX file (\".csv\" is appended when missing)")
	f.StringVarP(&fv.output, "output_filename", "o", config.DefaultOutput, "output CSV file")
	f.StringVarP(&fv.uniqueKey, "unique_key", "k", "", "key column, or comma-separated key columns")
	f.StringVar(&fv.separator, "separator", ",", "input field separator (\\t for tab)")
	f.StringVar(&fv.encoding, "encoding", "utf-8", "input text encoding")
	f.StringVar(&fv.breakOnErrors, "break_on_errors", "yes", "abort on malformed rows (yes/no)")
	f.StringVar(&fv.concatDelimiter, "concat_delimiter", ", ", "delimiter for cat/ddc/sdc")
	f.BoolVar(&fv.caseInsensitive, "case_insensitive", false, "match a single text key case-insensitively")
	f.StringVar(&fv.schema, "schema", "", "JSON/YAML file mapping each column to an operator tag")
	f.StringVar(&fv.saveSchema, "save_schema", "", "write the chosen operators to this schema file")
	f.StringVar(&fv.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	f.StringVar(&fv.logFormat, "log-format", "text", "log format: text, json")
	f.BoolVar(&fv.discover, "discover", false, "print the detected columns and kinds, then exit")
	f.IntVar(&fv.preview, "preview", 5, "merged rows to print after writing (0 disables)")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rowmerge %s (built %s)\n", version, buildDate)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.DefaultStyles().RenderError(err))
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, fv flagValues) error {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyFlags(cmd, fv, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize logger
	log, closeLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = closeLog() }()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	styles := ui.DefaultStyles()
	r := &runner{
		cfg:      cfg,
		log:      log,
		out:      cmd.OutOrStdout(),
		styles:   styles,
		prompter: ui.NewPrompter(os.Stdin, cmd.OutOrStdout(), styles),
		discover: fv.discover,
		preview:  fv.preview,
	}
	return r.run(ctx)
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, fv flagValues, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("filename") {
		cfg.Input = fv.input
	}
	if changed("output_filename") {
		cfg.Output = fv.output
	}
	if changed("unique_key") {
		cfg.UniqueKey = fv.uniqueKey
	}
	if changed("separator") {
		cfg.Separator = fv.separator
	}
	if changed("encoding") {
		cfg.Encoding = fv.encoding
	}
	if changed("break_on_errors") {
		b, err := config.ParseBool(fv.breakOnErrors)
		if err != nil {
			return fmt.Errorf("--break_on_errors: %w", err)
		}
		cfg.BreakOnErrors = b
	}
	if changed("concat_delimiter") {
		cfg.ConcatDelimiter = fv.concatDelimiter
	}
	if changed("case_insensitive") {
		cfg.CaseInsensitive = fv.caseInsensitive
	}
	if changed("schema") {
		cfg.Schema = fv.schema
	}
	if changed("save_schema") {
		cfg.SaveSchema = fv.saveSchema
	}
	if changed("log-level") {
		cfg.Logging.Level = fv.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = fv.logFormat
	}
	return nil
}
