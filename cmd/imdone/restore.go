package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Restore a note from the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		id, err := resolveID(service, args[0])
		if err != nil {
			fatal("Error finding note", err)
		}

		changed, err := service.Restore(context.Background(), id)
		reportWrite(err)
		if !changed {
			fmt.Printf("Note is not in the trash: %s\n", shortID(id))
			return
		}
		fmt.Printf("Note restored: %s\n", shortID(id))
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
