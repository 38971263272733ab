package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fbz-tec/sqlitexport/core/config"
	"github.com/fbz-tec/sqlitexport/core/db"
	"github.com/fbz-tec/sqlitexport/core/dump"
	"github.com/fbz-tec/sqlitexport/core/exporters"
	"github.com/fbz-tec/sqlitexport/core/formatters"
	"github.com/fbz-tec/sqlitexport/core/output"
	"github.com/fbz-tec/sqlitexport/internal/logger"
	"github.com/fbz-tec/sqlitexport/internal/version"
	"github.com/spf13/cobra"
)

var (
	configFile     string
	format         string
	delimiter      string
	quote          string
	lineTerminator string
	encoding       string
	compression    string
	driver         string
	timeFormat     string
	timeZone       string
	manifestPath   string
	noHeader       bool
	progress       bool
	verbose        bool
	quiet          bool
)

var rootCmd = &cobra.Command{
	Use:   "sqlitexport <db_file> <output_dir>",
	Short: "Export every table of a SQLite database to CSV files",
	Long: `Export every table of a SQLite database, one file per table.

Each table is written to <output_dir>/<table>.<ext> with a header row
followed by one line per row. The output directory is created if needed
and existing files are overwritten.

Supported output formats:
 • CSV  — comma separated, CRLF terminated, UTF-8 (default)
 • TSV  — tab separated text
 • XLSX — one Excel workbook per table`,
	Example: `  # Export all tables to ./out
  sqlitexport app.db ./out

  # Semicolon separated, LF terminated, Latin-1 encoded
  sqlitexport app.db ./out -D ";" --line-terminator lf -e latin1

  # Compressed TSV with a run manifest
  sqlitexport app.db ./out -f tsv -z zstd --manifest ./out/manifest.yaml

  # Use the pure Go driver
  sqlitexport app.db ./out --driver sqlite`,
	Args:          cobra.ExactArgs(2),
	PreRunE:       setupLogging,
	RunE:          runExport,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().SortFlags = false

	// CONFIGURATION
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file (flags override file and environment)")

	// OUTPUT FORMAT
	rootCmd.Flags().StringVarP(&format, "format", "f", config.DefaultFormat, "Output format ("+strings.Join(exporters.List(), ", ")+")")
	rootCmd.Flags().StringVarP(&compression, "compression", "z", config.DefaultCompression, "Compression to apply to each file ("+strings.Join(output.Compressions(), ", ")+")")
	rootCmd.Flags().StringVarP(&encoding, "encoding", "e", config.DefaultEncoding, "Text encoding of CSV/TSV files (e.g. utf-8, latin1, utf-16le)")

	// CSV DIALECT
	rootCmd.Flags().StringVarP(&delimiter, "delimiter", "D", config.DefaultDelimiter, "Field delimiter character (use \\t for tab)")
	rootCmd.Flags().StringVar(&quote, "quote", config.DefaultQuote, "Quote character")
	rootCmd.Flags().StringVar(&lineTerminator, "line-terminator", config.DefaultLineTerminator, "Line terminator (crlf, lf)")
	rootCmd.Flags().BoolVarP(&noHeader, "no-header", "n", false, "Skip the header row")

	// Date FORMATTING
	rootCmd.Flags().StringVarP(&timeFormat, "time-format", "T", config.DefaultTimeFormat, "Decode DATE/DATETIME/TIMESTAMP/BOOLEAN columns and render times with this format (e.g. yyyy-MM-dd HH:mm:ss). By default values are written as stored.")
	rootCmd.Flags().StringVarP(&timeZone, "time-zone", "Z", "", "Time zone for --time-format (e.g. UTC, Europe/Paris). Defaults to the value's own zone.")

	// SOURCE
	rootCmd.Flags().StringVar(&driver, "driver", config.DefaultDriver, "SQLite driver ("+strings.Join(db.Drivers(), ", ")+")")

	// BEHAVIOR OPTIONS
	rootCmd.Flags().StringVar(&manifestPath, "manifest", "", "Write a YAML summary of the run to this path")
	rootCmd.Flags().BoolVar(&progress, "progress", false, "Show a row counter while each table is exported")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with detailed information")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Enable quiet mode: only display error messages")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the export.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if verbose && quiet {
		return fmt.Errorf("cannot use --verbose and --quiet flags together")
	}
	if quiet {
		logger.SetQuiet(true)
		logger.SetVerbose(false)
		return nil
	}
	logger.SetQuiet(false)
	logger.SetVerbose(verbose)
	logger.Debug("Verbose mode enabled")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	logger.Debug("Initializing sqlitexport execution environment")
	logger.Debug("Version: %s, Build: %s, Commit: %s", version.AppVersion, version.BuildTime, version.GitCommit)

	opts, err := buildOptions(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	manifest, err := dump.Run(ctx, opts)
	if err != nil {
		return err
	}

	logger.Debug("Exported %d tables (%d rows) in %v",
		manifest.Tables.Len(), manifest.TotalRows(), time.Since(start).Round(time.Millisecond))
	return nil
}

// buildOptions merges defaults, the config file, the environment and the
// flags the user set explicitly, then validates the result.
func buildOptions(cmd *cobra.Command, dbPath, outputDir string) (dump.Options, error) {
	logger.Debug("Loading configuration from file, environment and flags")
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return dump.Options{}, fmt.Errorf("configuration error: %w", err)
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
			logger.Debug("Overriding %s from flag: %q", name, v)
		}
	}
	override("format", &cfg.Format, format)
	override("delimiter", &cfg.Delimiter, delimiter)
	override("quote", &cfg.Quote, quote)
	override("line-terminator", &cfg.LineTerminator, lineTerminator)
	override("encoding", &cfg.Encoding, encoding)
	override("compression", &cfg.Compression, compression)
	override("driver", &cfg.Driver, driver)
	override("time-format", &cfg.TimeFormat, timeFormat)
	override("time-zone", &cfg.TimeZone, timeZone)
	override("manifest", &cfg.Manifest, manifestPath)
	if flags.Changed("no-header") {
		cfg.NoHeader = noHeader
	}

	if err := cfg.Validate(); err != nil {
		return dump.Options{}, fmt.Errorf("configuration error: %w", err)
	}

	d, err := cfg.Dialect()
	if err != nil {
		return dump.Options{}, err
	}
	timeOpts, err := formatters.NewTimeOptions(cfg.TimeFormat, cfg.TimeZone)
	if err != nil {
		return dump.Options{}, err
	}

	logger.Debug("Configuration: format=%s delimiter=%q quote=%q encoding=%s compression=%s driver=%s",
		cfg.Format, string(d.Delimiter), string(d.Quote), cfg.Encoding, cfg.Compression, cfg.Driver)

	return dump.Options{
		DBPath:       dbPath,
		OutputDir:    outputDir,
		Driver:       cfg.Driver,
		Format:       cfg.Format,
		Dialect:      d,
		Encoding:     cfg.Encoding,
		Compression:  cfg.Compression,
		NoHeader:     cfg.NoHeader,
		Time:         timeOpts,
		Progress:     progress && !logger.IsQuiet(),
		ManifestPath: cfg.Manifest,
	}, nil
}
