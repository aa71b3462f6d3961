package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var trashCmd = &cobra.Command{
	Use:   "trash [id]",
	Short: "Move a note to the trash",
	Long:  `Trash soft-deletes a note. It can be restored for 30 days.
Trashing a note that is already in the trash restarts its 30 days.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		id, err := resolveID(service, args[0])
		if err != nil {
			fatal("Error finding note", err)
		}

		_, err = service.SoftDelete(context.Background(), id)
		reportWrite(err)
		fmt.Printf("Note moved to the trash: %s\n", shortID(id))
	},
}

func init() {
	rootCmd.AddCommand(trashCmd)
}
