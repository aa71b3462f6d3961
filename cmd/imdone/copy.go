package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/imdone/pkg/core"
	"github.com/aretw0/imdone/pkg/export"
)

var (
	copyQuery string
	copyTrash bool
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Print notes in clipboard format",
	Long: `Copy prints one "<date>, <content>" line per active note, newest first.
With --trash it prints the trash instead.
Pipe it into your clipboard tool, e.g. imdone copy | pbcopy.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		notes := service.View(core.Filter{Query: copyQuery, Trash: copyTrash})
		if len(notes) == 0 {
			return
		}
		fmt.Println(export.ClipboardText(notes))
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().BoolVar(&copyTrash, "trash", false, "Print the trash instead of active notes")
	copyCmd.Flags().StringVarP(&copyQuery, "query", "q", "", "Only notes containing this text (case-insensitive)")
}
