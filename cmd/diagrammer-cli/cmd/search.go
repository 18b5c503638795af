package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

var searchKind string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search every diagram",
	Long: `Search table, column, node and connection names across diagrams.

Results are ranked by relevance using fuzzy matching.

Examples:
  diagrammer-cli search user
  diagrammer-cli search --kind flowchart valid`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := domain.KindUnknown
		if searchKind != "" {
			var err error
			if kind, err = parseKind(searchKind); err != nil {
				return err
			}
		}

		results, err := commands.NewSearchCommand(GetSession(), args[0], kind).Execute(context.Background())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("[%s/%s] %s %s\n", r.Kind, r.Type, r.ID, r.Name)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchKind, "kind", "k", "", "limit to one diagram kind")
	rootCmd.AddCommand(searchCmd)
}
