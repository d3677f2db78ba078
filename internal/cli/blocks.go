package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/schema"
)

// blocksCommand lists the block kinds this build renders.
func (c *CLI) blocksCommand() *cobra.Command {
	var fields bool

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List supported block typenames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(blocksTable(blocks.Kinds(), schema.Builtin(), fields))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fields, "fields", false, "show the field paths of each block")
	return cmd
}

func blocksTable(kinds []blocks.Kind, set *schema.Set, withFields bool) string {
	headers := []string{"Typename", "Aliases"}
	if withFields {
		headers = append(headers, "Fields")
	}

	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		row := []string{k.Typename, strings.Join(k.Aliases, ", ")}
		if withFields {
			var paths []string
			if t, ok := set.Lookup(k.Typename); ok {
				paths = t.Paths()
			}
			row = append(row, strings.Join(paths, "\n"))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return StyleTitle.Padding(0, 1)
			}
			if col == 0 {
				return StyleHighlight.Padding(0, 1)
			}
			return StyleDim.Padding(0, 1)
		}).
		Render()
}
