package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/credir/internal/config"
	"github.com/gravitrone/credir/internal/store"
	"github.com/gravitrone/credir/internal/ui/components"
)

// WidthsCmd returns the `credir widths` command group.
func WidthsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widths",
		Short: "Inspect or reset saved column widths",
	}
	cmd.AddCommand(widthsListCmd())
	cmd.AddCommand(widthsResetCmd())
	return cmd
}

func openState() (*store.SQLite, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return store.OpenSQLite(cfg.StateDBPath())
}

func widthsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables with saved widths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openState()
			if err != nil {
				return err
			}
			defer st.Close()
			return ListWidths(cmd.OutOrStdout(), st)
		},
	}
}

// ListWidths prints one row per table with saved widths.
func ListWidths(out io.Writer, st *store.SQLite) error {
	entries, err := st.ListKeys(store.WidthsPrefix)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no saved widths")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		var widths map[string]int
		cols := "unreadable"
		if json.Unmarshal([]byte(e.Value), &widths) == nil {
			keys := make([]string, 0, len(widths))
			for k := range widths {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = fmt.Sprintf("%s=%d", k, widths[k])
			}
			cols = strings.Join(parts, " ")
		}
		rows = append(rows, []string{strings.TrimPrefix(e.Key, store.WidthsPrefix), cols, e.UpdatedAt})
	}
	columns := []components.TableColumn{
		{Header: "Table", Width: 14},
		{Header: "Widths", Width: 60},
		{Header: "Updated", Width: 30},
	}
	fmt.Fprintln(out, components.TableGrid(columns, rows, 110))
	return nil
}

func widthsResetCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [table...]",
		Short: "Drop saved widths so tables use their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("name a table or pass --all")
			}
			st, err := openState()
			if err != nil {
				return err
			}
			defer st.Close()
			return ResetWidths(cmd.OutOrStdout(), st, args, all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "reset every table")
	return cmd
}

// ResetWidths removes saved widths for the named tables, or all of them.
func ResetWidths(out io.Writer, st *store.SQLite, tables []string, all bool) error {
	if all {
		entries, err := st.ListKeys(store.WidthsPrefix)
		if err != nil {
			return err
		}
		tables = tables[:0]
		for _, e := range entries {
			tables = append(tables, strings.TrimPrefix(e.Key, store.WidthsPrefix))
		}
	}
	for _, t := range tables {
		if err := store.ResetWidths(st, t); err != nil {
			return err
		}
		fmt.Fprintf(out, "reset %s\n", t)
	}
	return nil
}

