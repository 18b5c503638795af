package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"diagrammer/internal/adapters/fswatch"
	"diagrammer/internal/adapters/mysql"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

var erdCmd = &cobra.Command{
	Use:   "erd",
	Short: "Edit the entity-relationship diagram",
	Long: `Edit tables, columns and relations of the ERD.

Tables and columns are referenced by name or id. Relation endpoints are
written table.column.

Examples:
  diagrammer-cli erd add-table users
  diagrammer-cli erd add-column orders user_id --type INT --not-null
  diagrammer-cli erd relate orders.user_id users.id --on-delete CASCADE
  diagrammer-cli erd sql`,
}

var (
	posX, posY   float64
	tableComment string
	colSpec      commands.ColumnSpec
	relType      string
	relOnDelete  string
	relOnUpdate  string
	relName      string
	sqlOutput    string
)

var erdAddTableCmd = &cobra.Command{
	Use:   "add-table [name]",
	Short: "Add a table with an id primary key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		addCmd := commands.NewAddTableCommand(GetSession().ERD, name, domain.Position{X: posX, Y: posY})
		addCmd.Comment = tableComment
		result, err := addCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdAddColumnCmd = &cobra.Command{
	Use:   "add-column <table> [name]",
	Short: "Add a column to a table",
	Long: `Add a column to a table. Without flags the column is a nullable
VARCHAR(255).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := colSpec
		if len(args) == 2 {
			spec.Name = args[1]
		}
		result, err := commands.NewAddColumnCommand(GetSession().ERD, args[0], spec).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdUpdateColumnCmd = &cobra.Command{
	Use:   "update-column <table> <column>",
	Short: "Change the attributes of a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewUpdateColumnCommand(GetSession().ERD, args[0], args[1], colSpec).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdRenameCmd = &cobra.Command{
	Use:   "rename <table> <new-name>",
	Short: "Rename a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRenameTableCommand(GetSession().ERD, args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdDuplicateCmd = &cobra.Command{
	Use:   "duplicate <table>",
	Short: "Copy a table with fresh ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDuplicateTableCommand(GetSession().ERD, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdDeleteTableCmd = &cobra.Command{
	Use:   "delete-table <table>",
	Short: "Delete a table and its relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteTableCommand(GetSession().ERD, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdDeleteColumnCmd = &cobra.Command{
	Use:   "delete-column <table> <column>",
	Short: "Delete a column and the relations using it",
	Long: `Delete a column and the relations using it.

A table keeps at least one column; deleting the last one is refused.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteColumnCommand(GetSession().ERD, args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdRelateCmd = &cobra.Command{
	Use:   "relate <from-table.column> <to-table.column>",
	Short: "Add a foreign key relation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		relCmd := commands.NewAddRelationCommand(GetSession().ERD, args[0], args[1])
		relCmd.Type = relType
		relCmd.OnDelete = relOnDelete
		relCmd.OnUpdate = relOnUpdate
		relCmd.Name = relName
		result, err := relCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdUnrelateCmd = &cobra.Command{
	Use:   "unrelate <relation-id>",
	Short: "Delete a relation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteRelationCommand(GetSession().ERD, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var erdSQLCmd = &cobra.Command{
	Use:   "sql",
	Short: "Print the MySQL DDL for the ERD",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ddl, err := commands.NewExportCommand(GetSession(), domain.KindERD, "sql").Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Print(ddl)
		return nil
	},
}

var erdApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the generated DDL against MySQL",
	Long: `Run the generated DDL against the MySQL database named by mysql_dsn
(or DIAGRAMMER_MYSQL_DSN). Tables and constraints that already exist are
skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.MySQLDSN == "" {
			return fmt.Errorf("no MySQL DSN configured: set mysql_dsn or DIAGRAMMER_MYSQL_DSN")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stmts := GetSession().ERD.SQLStatements()
		if len(stmts) == 0 {
			return fmt.Errorf("the ERD has no tables to apply")
		}

		applier, err := mysql.Open(ctx, cfg.MySQLDSN, logger)
		if err != nil {
			return err
		}
		defer applier.Close()

		n, err := applier.ApplyStatements(ctx, stmts)
		if err != nil {
			return err
		}
		fmt.Printf("Applied %d statement(s)\n", n)
		return nil
	},
}

var erdWatchCmd = &cobra.Command{
	Use:   "watch <snapshot.json>",
	Short: "Regenerate SQL whenever an ERD snapshot file changes",
	Long: `Watch an ERD snapshot file and write the generated DDL next to it
(or to --output) on every save. Malformed saves are logged and skipped.

Example:
  diagrammer-cli erd watch schema.json -o schema.sql`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := sqlOutput
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".sql"
		}

		w := fswatch.NewWatcher(args[0], out, logger)
		w.OnGenerate = func(string) {
			fmt.Printf("Wrote %s\n", out)
		}
		return w.Run(ctx)
	},
}

func addColumnFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&colSpec.DataType, "type", "t", "", "data type (VARCHAR, INT, DECIMAL, ...)")
	f.IntVar(&colSpec.Length, "length", 0, "VARCHAR length")
	f.IntVar(&colSpec.Precision, "precision", 0, "DECIMAL/NUMERIC precision")
	f.IntVar(&colSpec.Scale, "scale", 0, "DECIMAL/NUMERIC scale")
	f.BoolVar(&colSpec.NotNull, "not-null", false, "disallow NULL")
	f.BoolVar(&colSpec.PrimaryKey, "primary-key", false, "part of the primary key")
	f.BoolVar(&colSpec.Unique, "unique", false, "add a UNIQUE constraint")
	f.BoolVar(&colSpec.AutoIncrement, "auto-increment", false, "AUTO_INCREMENT")
	f.StringVar(&colSpec.Default, "default", "", "default value, written verbatim")
	f.StringVar(&colSpec.Comment, "comment", "", "column comment")
}

func addPositionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&posX, "x", 0, "canvas x coordinate")
	cmd.Flags().Float64Var(&posY, "y", 0, "canvas y coordinate")
}

func init() {
	rootCmd.AddCommand(erdCmd)

	addPositionFlags(erdAddTableCmd)
	erdAddTableCmd.Flags().StringVar(&tableComment, "comment", "", "table comment")

	addColumnFlags(erdAddColumnCmd)
	addColumnFlags(erdUpdateColumnCmd)
	erdUpdateColumnCmd.Flags().StringVar(&colSpec.Name, "name", "", "new column name")

	erdRelateCmd.Flags().StringVar(&relType, "type", "", "ONE_TO_ONE, ONE_TO_MANY or MANY_TO_MANY")
	erdRelateCmd.Flags().StringVar(&relOnDelete, "on-delete", "", "CASCADE, SET_NULL, RESTRICT or NO_ACTION")
	erdRelateCmd.Flags().StringVar(&relOnUpdate, "on-update", "", "CASCADE, SET_NULL, RESTRICT or NO_ACTION")
	erdRelateCmd.Flags().StringVar(&relName, "name", "", "relation name")

	erdWatchCmd.Flags().StringVarP(&sqlOutput, "output", "o", "", "SQL output file")

	erdCmd.AddCommand(erdAddTableCmd)
	erdCmd.AddCommand(erdAddColumnCmd)
	erdCmd.AddCommand(erdUpdateColumnCmd)
	erdCmd.AddCommand(erdRenameCmd)
	erdCmd.AddCommand(erdDuplicateCmd)
	erdCmd.AddCommand(erdDeleteTableCmd)
	erdCmd.AddCommand(erdDeleteColumnCmd)
	erdCmd.AddCommand(erdRelateCmd)
	erdCmd.AddCommand(erdUnrelateCmd)
	erdCmd.AddCommand(erdSQLCmd)
	erdCmd.AddCommand(erdApplyCmd)
	erdCmd.AddCommand(erdWatchCmd)
}
