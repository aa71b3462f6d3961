package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/imdone/pkg/core"
	"github.com/aretw0/imdone/pkg/export"
)

var (
	exportOut   string
	exportQuery string
	exportTrash bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes as CSV",
	Long: `Export writes the active notes (newest first) to imdone_export_YYYYMMDD.csv.
With --trash it exports the trash instead.
The file is UTF-8 with a byte order mark so spreadsheet applications open it correctly.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		notes := service.View(core.Filter{Query: exportQuery, Trash: exportTrash})
		if len(notes) == 0 {
			if exportTrash {
				fmt.Println("ゴミ箱は空です")
			} else {
				fmt.Println("メモはまだありません")
			}
			return
		}

		if exportOut == "-" {
			if err := export.WriteCSV(os.Stdout, notes); err != nil {
				fatal("Failed to write CSV", err)
			}
			return
		}

		path := filepath.Join(exportOut, export.Filename(time.Now()))
		if err := os.WriteFile(path, export.CSV(notes), 0644); err != nil {
			fatal("Failed to write CSV", err)
		}
		fmt.Printf("Exported %d notes to %s\n", len(notes), path)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Output directory, or - for stdout")
	exportCmd.Flags().BoolVar(&exportTrash, "trash", false, "Export the trash instead of active notes")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "Only notes containing this text (case-insensitive)")
}
