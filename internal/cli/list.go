package cli

import (
	"fmt"
	"net/url"
	"strconv"

	styles "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	"github.com/keilerkonzept/catalog-browser/internal/config"
	"github.com/keilerkonzept/catalog-browser/internal/logging"
	"github.com/keilerkonzept/catalog-browser/internal/query"
)

type listOptions struct {
	query     string
	medium    string
	era       string
	category4 string
	low       bool
	min       int
	max       int
	output    string
}

// listResult is the structured form of the list output.
type listResult struct {
	Query   string          `json:"query" yaml:"query"`
	Total   int             `json:"total" yaml:"total"`
	Entries []catalog.Entry `json:"entries" yaml:"entries"`
}

func newListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the sorted and filtered catalog",
		Long: `List derives the same view as the interactive browser and prints it.

The selection can be given as a query string copied from the browser
(--query "sort=period-a&medium=Oil&min=1300"), as individual flags, or both;
flags are applied after the query. Period bounds are clamped to the data and
min never exceeds max.`,
		Example: `  catalog list --medium Fresco --low
  catalog list --query "era=Gothic&max=1400" -o json
  catalog list --data items.csv --min 1500 --sort period-d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.query, "query", "", "selection as a query string, as shared from the browser")
	f.StringVar(&opts.medium, "medium", "", "only entries of this medium")
	f.StringVar(&opts.era, "era", "", "only entries of this period name")
	f.StringVar(&opts.category4, "category4", "", "only entries of this category")
	f.BoolVar(&opts.low, "low", false, "only low difficulty entries")
	f.IntVar(&opts.min, "min", 0, "earliest period (clamped to the data)")
	f.IntVar(&opts.max, "max", 0, "latest period (clamped to the data)")
	f.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json, yaml")

	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	c, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}

	state, err := listState(cmd, opts, c.NewState(sortKey(cfg)))
	if err != nil {
		return usageError(err)
	}

	d, err := newDeriver(cfg, c)
	if err != nil {
		return err
	}
	result := d.Derive(state)

	w := cmd.OutOrStdout()
	if opts.output != outputText {
		return writeStructured(w, opts.output, listResult{
			Query:   query.Encode(state),
			Total:   result.Total,
			Entries: result.Entries,
		})
	}

	if len(result.Entries) > 0 {
		if _, err := fmt.Fprintln(w, entriesTable(result.Entries)); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "%d of %d entries (%s)\n", len(result.Entries), result.Total, query.Encode(state))
	return err
}

// listState applies --query and then the individual selection flags on top
// of base. Both go through query.Decode so range updates keep min <= max.
func listState(cmd *cobra.Command, opts *listOptions, base catalog.State) (catalog.State, error) {
	s := base
	if opts.query != "" {
		var err error
		if s, err = query.Decode(opts.query, s); err != nil {
			return base, err
		}
	}

	f := cmd.Flags()
	values := url.Values{}
	for name, value := range map[string]string{
		"medium":    opts.medium,
		"era":       opts.era,
		"category4": opts.category4,
		"low":       strconv.FormatBool(opts.low),
		"min":       strconv.Itoa(opts.min),
		"max":       strconv.Itoa(opts.max),
	} {
		if f.Lookup(name) != nil && f.Changed(name) {
			values.Set(name, value)
		}
	}
	if len(values) == 0 {
		return s, nil
	}
	return query.Decode(values.Encode(), s)
}

func entriesTable(entries []catalog.Entry) string {
	header := styles.NewStyle().Bold(true).Padding(0, 1)
	cell := styles.NewStyle().Padding(0, 1)

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.Itoa(e.ID),
			e.Name,
			strconv.Itoa(e.Period),
			e.PeriodName,
			e.Medium,
			e.Category4,
			e.Difficulty,
		}
	}

	return table.New().
		Border(styles.NormalBorder()).
		Headers("ID", "NAME", "PERIOD", "ERA", "MEDIUM", "4CHT", "DIFFICULTY").
		Rows(rows...).
		StyleFunc(func(row, _ int) styles.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}
