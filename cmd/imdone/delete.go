package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note permanently",
	Long:  `Delete removes a note for good. It asks for confirmation unless --yes is given.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		id, err := resolveID(service, args[0])
		if err != nil {
			fatal("Error finding note", err)
		}

		if !deleteYes {
			note, _ := service.Get(id)
			fmt.Printf("%q\nこのメモを完全に削除しますか？この操作は取り消せません。 [y/N]: ", note.Content)
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if !confirmed(answer) {
				fmt.Println("Cancelled.")
				return
			}
		}

		_, err = service.PermanentDelete(context.Background(), id)
		reportWrite(err)
		fmt.Printf("Note deleted: %s\n", shortID(id))
	},
}

func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}
