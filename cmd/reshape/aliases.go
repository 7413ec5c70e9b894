package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAliasesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List registered aliases and their roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := g.registry(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ALIAS\tIMPLEMENTATION\tROLES")
			for _, alias := range reg.Aliases() {
				d, _ := reg.Lookup(alias)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Alias, d.ID, d.Capabilities)
			}
			return tw.Flush()
		},
	}
}
