package browser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
)

// card renders one entry in the cards pane.
type card struct {
	catalog.Entry
}

func (c card) Title() string { return c.Name }
func (c card) Description() string {
	return fmt.Sprintf("Period: %d · %s · %s", c.Period, c.Medium, c.PeriodName)
}
func (c card) FilterValue() string { return c.Name }

func cards(entries []catalog.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = card{e}
	}
	return items
}
