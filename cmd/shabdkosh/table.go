package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/shabdkosh/pkg/phone"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect and compile symbol tables",
}

var tableCompileCmd = &cobra.Command{
	Use:   "compile <dir>",
	Short: "Compile a table directory's CSV into data.gob",
	Long: `Compile reads the CSV named by <dir>/manifest.yaml and writes a gob snapshot
to <dir>/data.gob. Loaders prefer the snapshot over the CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := phone.Compile(args[0])
		if err != nil {
			return err
		}
		logger.Info("table compiled", "id", t.Manifest.ID, "symbols", t.Len())
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d symbols -> %s/data.gob\n", t.Manifest.ID, t.Len(), args[0])
		return nil
	},
}

var tableShowCmd = &cobra.Command{
	Use:   "show <phone>",
	Short: "Print a table's metadata and symbol counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := phone.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		m := t.Manifest
		fmt.Fprintf(out, "id       %s\n", m.ID)
		if m.Version != "" {
			fmt.Fprintf(out, "version  %s\n", m.Version)
		}
		if m.Script != "" {
			fmt.Fprintf(out, "script   %s\n", m.Script)
		}
		fmt.Fprintf(out, "symbols  %d\n", t.Len())

		counts := t.CountByType()
		types := make([]string, 0, len(counts))
		for typ := range counts {
			types = append(types, string(typ))
		}
		sort.Strings(types)
		for _, typ := range types {
			fmt.Fprintf(out, "  %-10s %d\n", typ, counts[phone.Type(typ)])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.AddCommand(tableCompileCmd)
	tableCmd.AddCommand(tableShowCmd)
}
