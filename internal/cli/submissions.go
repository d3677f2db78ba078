package cli

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/submissions"
)

// submissionsCommand inspects stored form submissions.
func (c *CLI) submissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Inspect stored form submissions",
	}
	cmd.AddCommand(c.submissionsListCommand())
	return cmd
}

func (c *CLI) submissionsListCommand() *cobra.Command {
	var (
		filter  submissions.Filter
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := submissionStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			records, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				printInfo("No submissions")
				return nil
			}
			os.Stdout.WriteString(submissionsTable(records) + "\n")
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Form, "form", "", "only this form (contact, request-quote, customer-registration)")
	cmd.Flags().StringVar(&filter.PageID, "page", "", "only this page")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "maximum number of submissions")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write JSON")
	return cmd
}

func submissionsTable(records []submissions.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Form,
			r.PageID + "/" + r.BlockID,
			valuesSummary(r.Values),
			r.ID,
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Received", "Form", "Block", "Values", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return StyleTitle.Padding(0, 1)
			case col == 4:
				return StyleDim.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Render()
}

// valuesSummary shows the contact fields first, then the rest by name.
func valuesSummary(values map[string]string) string {
	var parts []string
	for _, k := range []string{"email", "firstName", "lastName"} {
		if v := values[k]; v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+values[k])
	}
	return strings.Join(parts, " ")
}
