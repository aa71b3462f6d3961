package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/imdone/pkg/core"
	"github.com/aretw0/imdone/pkg/export"
)

var (
	listJSON  bool
	listTrash bool
	listQuery string
	listOrder string
)

type listItem struct {
	ID            string     `json:"id"`
	Content       string     `json:"content"`
	Timestamp     time.Time  `json:"timestamp"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
	RemainingDays *int       `json:"remainingDays,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long:  `List prints the active notes, or the trash with --trash, newest first.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		order := core.SortOrder(listOrder)
		if order != core.OrderAsc && order != core.OrderDesc {
			fatal("Invalid order", fmt.Errorf("%q (want asc or desc)", listOrder))
		}

		service := openService()
		notes := service.View(core.Filter{Trash: listTrash, Query: listQuery, Order: order})

		if listJSON {
			items := make([]listItem, 0, len(notes))
			for _, n := range notes {
				item := listItem{ID: n.ID, Content: n.Content, Timestamp: n.Timestamp}
				if at, ok := n.Deleted.At(); ok {
					days := service.RemainingDays(n)
					item.DeletedAt = &at
					item.RemainingDays = &days
				}
				items = append(items, item)
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(items); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(notes) == 0 {
			if listTrash {
				fmt.Println("ゴミ箱は空です")
			} else {
				fmt.Println("メモはまだありません")
			}
			return
		}

		for _, n := range notes {
			line := fmt.Sprintf("%s  %s  %s", shortID(n.ID), export.FormatDateTime(n.Timestamp), n.Content)
			if listTrash {
				line += fmt.Sprintf("  (残り%d日)", service.RemainingDays(n))
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listTrash, "trash", false, "List the trash instead of active notes")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only notes containing this text (case-insensitive)")
	listCmd.Flags().StringVar(&listOrder, "order", string(core.OrderDesc), "Sort order: desc or asc")
}
