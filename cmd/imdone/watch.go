package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	imdonelifecycle "github.com/aretw0/imdone/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes to the note collection as they happen",
	Long: `Watch follows the vault and prints one line per change, including
notes saved by other imdone processes. Stop it with Ctrl-C.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		service := openService()
		source := imdonelifecycle.NewSource(service)
		if err := source.Start(ctx); err != nil {
			fatal("Failed to watch vault", err)
		}

		fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl-C to stop)")
		for e := range source.Events() {
			fmt.Println(e.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
