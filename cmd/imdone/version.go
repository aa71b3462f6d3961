package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/imdone"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of imdone",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("imdone version %s\n", strings.TrimSpace(imdone.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
