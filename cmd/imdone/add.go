package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Save a typed note",
	Long:  `Add stores the given text as a new note. Without arguments the text is read from stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			text = string(data)
		}

		service := openService()
		note, ok, err := service.Create(context.Background(), text)
		if !ok {
			fmt.Fprintln(os.Stderr, "Nothing to save: the note is empty.")
			os.Exit(1)
		}
		reportWrite(err)

		fmt.Printf("Note saved: %s\n", shortID(note.ID))
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
