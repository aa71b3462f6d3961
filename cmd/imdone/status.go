package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/imdone"
	"github.com/aretw0/imdone/pkg/adapters/fs"
	"github.com/aretw0/imdone/pkg/core"
)

var statusMermaid bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		path, err := imdone.ResolveDir(dir)
		if err != nil {
			fatal("Failed to resolve vault", err)
		}
		repo, err := imdone.Init(path, imdone.WithFormat(format), imdone.WithReadOnly(readOnly), imdone.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open vault", err)
		}

		if statusMermaid {
			fmt.Println(introspection.TreeDiagram(buildVaultTree(service, repo), introspection.DefaultDiagramConfig()))
			return
		}

		report := map[string]any{}
		for _, c := range []any{service, repo} {
			intro, ok := c.(introspection.Introspectable)
			if !ok {
				continue
			}
			name := "component"
			if comp, ok := c.(introspection.Component); ok {
				name = comp.ComponentType()
			}
			report[name] = intro.State()
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

type vaultNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []vaultNode
}

// buildVaultTree maps component states onto the node statuses known to
// introspection.DefaultStyles().
func buildVaultTree(service *core.Service, repo core.Repository) vaultNode {
	svcState, _ := service.State().(core.ServiceState)

	serviceStatus := "running"
	if svcState.LastError != "" {
		serviceStatus = "failed"
	}

	root := vaultNode{
		Name:   "Vault",
		Status: "running",
		Metadata: map[string]string{
			"type": "container",
		},
		Children: []vaultNode{{
			Name:   "Notes",
			Status: serviceStatus,
			Metadata: map[string]string{
				"type":    "process",
				"active":  fmt.Sprintf("%d", svcState.Active),
				"trashed": fmt.Sprintf("%d", svcState.Trashed),
				"codec":   svcState.Codec,
			},
		}},
	}

	if intro, ok := repo.(introspection.Introspectable); ok {
		if st, ok := intro.State().(fs.StoreState); ok {
			root.Metadata["path"] = st.Path
			watcherStatus := "suspended"
			if st.WatcherActive {
				watcherStatus = "running"
			}
			root.Children = append(root.Children, vaultNode{
				Name:   "Watcher",
				Status: watcherStatus,
				Metadata: map[string]string{
					"type": "goroutine",
				},
			})
		}
	}
	return root
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusMermaid, "mermaid", false, "Print a Mermaid diagram instead of JSON")
}
