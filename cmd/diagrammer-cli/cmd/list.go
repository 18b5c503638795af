package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"diagrammer/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list <erd|flowchart|usecase>",
	Short: "List the nodes and connections of a diagram",
	Long: `List the nodes, then the connections, of one diagram.

Examples:
  diagrammer-cli list erd
  diagrammer-cli list flowchart`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}

		entries, err := commands.NewListCommand(GetSession(), kind).Execute(context.Background())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("%s is empty\n", kind)
			return nil
		}

		for _, e := range entries {
			if e.Detail != "" {
				fmt.Printf("[%s] %s %s (%s)\n", e.Type, e.ID, e.Name, e.Detail)
				continue
			}
			fmt.Printf("[%s] %s %s\n", e.Type, e.ID, e.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
