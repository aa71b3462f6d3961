package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/imdone"
	"github.com/aretw0/imdone/pkg/core"
)

var (
	verbose  bool
	dir      string
	format   string
	readOnly bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imdone",
	Short: "Voice notes from the terminal",
	Long: `imdone turns dictated speech into short notes.
Deleted notes stay in the trash for 30 days before they are purged.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "d", "", "Vault directory (default: $IMDONE_DIR, nearest .imdone or ~/.imdone)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "json", "Storage format: json or yaml")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write to the vault")
}

// openService resolves the vault and loads the collection.
// A failed load is reported but not fatal: the collection starts empty.
func openService(extra ...imdone.Option) *core.Service {
	path, err := imdone.ResolveDir(dir)
	if err != nil {
		fatal("Failed to resolve vault", err)
	}

	opts := []imdone.Option{
		imdone.WithFormat(format),
		imdone.WithLogger(slog.Default()),
		imdone.WithReadOnly(readOnly),
	}
	service, err := imdone.New(path, append(opts, extra...)...)
	if err != nil {
		fatal("Failed to initialize imdone", err)
	}
	if notice := service.Notice(); notice != "" {
		fmt.Fprintln(os.Stderr, notice)
	}
	return service
}

// reportWrite prints the storage notice of a mutation that was applied in memory
// but could not be persisted.
func reportWrite(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, core.Message(err))
		os.Exit(1)
	}
}
