package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/fragments"
	"github.com/matzehuels/storeblocks/pkg/source"
)

// fragmentCommand prints the GraphQL fragments pages are queried with.
func (c *CLI) fragmentCommand() *cobra.Command {
	var (
		all   bool
		query bool
	)

	cmd := &cobra.Command{
		Use:   "fragment [typename]...",
		Short: "Print GraphQL fragments for block types",
		Example: `  storeblocks fragment GLHeroBannerBlock
  storeblocks fragment --all
  storeblocks fragment --query > page.graphql`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return fragments.Builtin().Typenames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			set := fragments.Builtin()
			out := cmd.OutOrStdout()
			switch {
			case query:
				fmt.Fprint(out, source.DefaultPageQuery, "\n", set.AllBlockTypes())
				return nil
			case all:
				fmt.Fprint(out, set.AllBlockTypes())
				return nil
			case len(args) == 0:
				for _, name := range set.Typenames() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			for i, name := range args {
				frag, err := set.Fragment(name)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, frag)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "print the AllBlockTypes fragment with every block fragment")
	cmd.Flags().BoolVar(&query, "query", false, "print the complete page query document")
	return cmd
}
