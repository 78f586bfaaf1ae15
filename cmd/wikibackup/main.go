// Package main provides the CLI entry point for wikibackup.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ukaji3/wikibackup-go/internal/config"
	"github.com/ukaji3/wikibackup-go/internal/logging"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/delivery"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/encoder"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/notify"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/storage"
)

var (
	configPath     string
	source         string
	dumpPath       string
	firefoxDB      string
	chromeProfile  string
	origin         string
	outDir         string
	encoderTimeout time.Duration
	logLevel       string
	plain          bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wikibackup",
		Short: "Back up saved OSRS wiki table references to Excel",
		Long: `wikibackup exports the table references collected into browser local
storage (key "osrsTableBackup") into a dated .xlsx backup.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&source, "source", "", "Storage source: dump, firefox, chrome")
	pf.StringVar(&dumpPath, "dump", "", "JSON dump of localStorage (source=dump)")
	pf.StringVar(&firefoxDB, "firefox-db", "", "Path to webappsstore.sqlite (source=firefox)")
	pf.StringVar(&chromeProfile, "chrome-profile", "", "Chrome user data directory (source=chrome)")
	pf.StringVar(&origin, "origin", "", "Wiki origin whose storage is read")
	pf.DurationVar(&encoderTimeout, "encoder-timeout", 0, "Maximum wait for the spreadsheet encoder (e.g. 30s)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&plain, "plain", false, "Disable styled notices")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored collection into the output directory",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Directory the backup is saved to")

	rootCmd.AddCommand(exportCmd, newServeCmd(), newInspectCmd())
	return rootCmd
}

// loadConfig loads the config file and environment, then applies flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.Kind = source
	}
	if flags.Changed("dump") {
		cfg.Source.DumpPath = dumpPath
	}
	if flags.Changed("firefox-db") {
		cfg.Source.FirefoxDB = firefoxDB
	}
	if flags.Changed("chrome-profile") {
		cfg.Source.ChromeProfile = chromeProfile
	}
	if flags.Changed("origin") {
		cfg.Source.Origin = origin
	}
	if flags.Changed("out-dir") {
		cfg.Export.OutDir = outDir
	}
	if flags.Changed("encoder-timeout") {
		cfg.Export.EncoderTimeout = encoderTimeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("plain") {
		cfg.Logging.Plain = plain
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore returns the configured store and a func releasing it.
func openStore(cfg config.SourceConfig) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Kind {
	case config.SourceDump:
		return storage.NewDumpFile(cfg.DumpPath), noop, nil
	case config.SourceFirefox:
		ff, err := storage.OpenFirefox(cfg.FirefoxDB, cfg.Origin)
		if err != nil {
			return nil, nil, err
		}
		return ff, ff.Close, nil
	case config.SourceChrome:
		return &storage.Chrome{
			UserDataDir: cfg.ChromeProfile,
			Origin:      cfg.Origin,
			Headless:    cfg.ChromeHeadless,
			Timeout:     cfg.ChromeTimeout,
		}, noop, nil
	default:
		return nil, nil, fmt.Errorf("invalid source: %s (must be dump, firefox, or chrome)", cfg.Kind)
	}
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Logging, w)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func exportOptions(cfg *config.Config, logger *slog.Logger) wikibackup.Options {
	opts := wikibackup.DefaultOptions()
	opts.Key = cfg.Export.Key
	opts.SheetName = cfg.Export.SheetName
	opts.Logger = logger
	return opts
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exp := wikibackup.New(
		store,
		encoder.NewLazy(encoder.LoadWorkbook, cfg.Export.EncoderTimeout),
		delivery.NewDirectory(cfg.Export.OutDir),
		notify.NewConsole(cmd.ErrOrStderr(), cfg.Logging.Plain),
		exportOptions(cfg, logger),
	)

	res, err := exp.Export(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if !res.Empty {
		fmt.Fprintln(cmd.OutOrStdout(), res.Location)
	}
	return nil
}
