package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerrad567/sqlweb/internal/sqladmin"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// newRootCmd creates the sqlweb command tree. Without a subcommand it serves
// the API.
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "sqlweb",
		Short: "SQLite Web Manager",
		Long: `sqlweb administers a single SQLite database file over HTTP.

It lists tables, inspects schema, runs SQL and creates, fills, prunes and
drops tables. The inspection subcommands read the same file from a terminal.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $SQLWEB_CONFIG or "+defaultConfigPath+")")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newTablesCmd(&configPath))
	rootCmd.AddCommand(newSchemaCmd(&configPath))
	rootCmd.AddCommand(newQueryCmd(&configPath))

	return rootCmd
}

// storeFromFlags loads configuration and builds a store for a CLI command.
func storeFromFlags(configPath string) (*sqladmin.Store, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return newStore(cfg), nil
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "f", formatTable, "output format (table|json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{formatTable, formatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
}

func newTablesCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List user tables with their row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storeFromFlags(*configPath)
			if err != nil {
				return err
			}
			tables, err := store.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			return renderTables(cmd.OutOrStdout(), tables, format)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newSchemaCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFromFlags(*configPath)
			if err != nil {
				return err
			}
			schema, err := store.TableSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderSchema(cmd.OutOrStdout(), schema, format)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newQueryCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run one SQL statement",
		Example: `  sqlweb query "SELECT * FROM users"
  sqlweb query "DELETE FROM sessions WHERE expired = 1" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFromFlags(*configPath)
			if err != nil {
				return err
			}
			result, err := store.ExecuteQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderQueryResult(cmd.OutOrStdout(), result, format)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

// ─── Rendering ─────────────────────────────────────────────────────

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTableWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderTables(w io.Writer, tables []sqladmin.TableInfo, format string) error {
	if format == formatJSON {
		return renderJSON(w, tables)
	}
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(w, "(no tables)")
		return nil
	}

	t := newTableWriter(w)
	t.AppendHeader(table.Row{"table", "rows"})
	for _, info := range tables {
		t.AppendRow(table.Row{info.Name, info.Rows})
	}
	t.Render()
	return nil
}

func renderSchema(w io.Writer, schema *sqladmin.TableSchema, format string) error {
	if format == formatJSON {
		return renderJSON(w, schema)
	}

	t := newTableWriter(w)
	t.SetTitle(schema.Table)
	t.AppendHeader(table.Row{"cid", "name", "type", "not null", "default", "pk"})
	for _, col := range schema.Columns {
		def := "NULL"
		if col.Default != nil {
			def = *col.Default
		}
		t.AppendRow(table.Row{col.CID, col.Name, col.Type, col.NotNull, def, col.PrimaryKey})
	}
	t.Render()
	return nil
}

func renderQueryResult(w io.Writer, result *sqladmin.QueryResult, format string) error {
	if format == formatJSON {
		return renderJSON(w, result)
	}
	if result.IsWrite() {
		_, _ = fmt.Fprintf(w, "(%d rows affected)\n", *result.RowsAffected)
		return nil
	}
	if result.RowCount == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newTableWriter(w)
	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, row := range result.Rows {
		r := make(table.Row, len(result.Columns))
		for i, col := range result.Columns {
			r[i] = formatValue(row[col])
		}
		t.AppendRow(r)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", result.RowCount)
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
