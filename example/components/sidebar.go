package components

import (
	"strconv"

	"github.com/pthm/hxmarkup"
)

// Sidebar shows the status filters with their counts.
type Sidebar struct {
	*hxmarkup.Panel
}

// NewSidebar creates the sidebar panel, highlighting current.
func NewSidebar(id string, store TodoStore, current Status) *Sidebar {
	stats := store.Stats()
	c := &Sidebar{Panel: hxmarkup.NewPanel(id, "Sidebar")}
	c.Add(
		filterLink("all", current == "", stats.Total),
		filterLink("pending", current == StatusPending, stats.Pending),
		filterLink("completed", current == StatusCompleted, stats.Completed),
	)
	return c
}

func filterLink(id string, active bool, count int) *hxmarkup.MarkupContainer {
	link := hxmarkup.NewContainer(id, hxmarkup.NewLabel("count", strconv.Itoa(count)))
	if active {
		link.Modify(hxmarkup.AppendAttr("class", "active"))
	}
	return link
}
