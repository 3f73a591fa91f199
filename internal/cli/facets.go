package cli

import (
	"fmt"
	"strings"

	styles "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	"github.com/keilerkonzept/catalog-browser/internal/config"
	"github.com/keilerkonzept/catalog-browser/internal/logging"
)

type facetsResult struct {
	Entries int            `json:"entries" yaml:"entries"`
	Period  catalog.Range  `json:"period" yaml:"period"`
	Facets  catalog.Facets `json:"facets" yaml:"facets"`
}

func newFacetsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Print the filterable values and the period bounds of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := openCatalog(ctx, config.FromContext(ctx), logging.FromContext(ctx))
			if err != nil {
				return err
			}

			res := facetsResult{Entries: c.Len(), Period: c.Bounds(), Facets: c.Facets()}
			if output != outputText {
				return writeStructured(cmd.OutOrStdout(), output, res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), facetsTable(res))
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml")

	return cmd
}

func facetsTable(res facetsResult) string {
	rows := [][]string{
		{"entries", fmt.Sprint(res.Entries)},
		{"period", fmt.Sprintf("%d–%d", res.Period.Min, res.Period.Max)},
	}
	for _, f := range catalog.AllFacets {
		rows = append(rows, []string{f.String(), strings.Join(res.Facets.Values(f), ", ")})
	}

	label := styles.NewStyle().Bold(true).Padding(0, 1)
	cell := styles.NewStyle().Padding(0, 1)

	return table.New().
		Border(styles.NormalBorder()).
		Rows(rows...).
		StyleFunc(func(_, col int) styles.Style {
			if col == 0 {
				return label
			}
			return cell
		}).
		String()
}
