package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/shabdkosh/pkg/api"
	"github.com/hazyhaar/shabdkosh/pkg/phone"
)

var (
	checkJSON   bool
	checkStrict bool
)

var checkCmd = &cobra.Command{
	Use:   "check <phone> <word>...",
	Short: "Validate words against a symbol table",
	Long: `Check normalizes each word and prints its canonical form, or why it was rejected.

Example:
  shabdkosh check phone/hindi.csv कला ▁मल ाक
  shabdkosh check tables/hindi कला --json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print results as JSON")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit with an error if any word is rejected")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := phone.Load(args[0])
	if err != nil {
		return err
	}
	svc := api.NewServiceFromTable(table, cfg.Normalize.options())

	results := make([]*api.NormalizeResult, 0, len(args)-1)
	rejected := 0
	for _, w := range args[1:] {
		res := svc.Normalize(w)
		if !res.Accepted {
			rejected++
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			switch {
			case res.Accepted:
				fmt.Fprintf(out, "%s\t%s\t(%d symbols)\n", res.Input, res.Word, len(res.Symbols))
			case res.Kind == "":
				fmt.Fprintf(out, "%s\t(empty)\n", res.Input)
			default:
				fmt.Fprintf(out, "%s\tREJECTED %s: %s\n", res.Input, res.Kind, res.Reason)
			}
		}
	}

	if checkStrict && rejected > 0 {
		return fmt.Errorf("%d of %d words rejected", rejected, len(results))
	}
	return nil
}
