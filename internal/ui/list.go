package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/hawkins/internal/models"
)

var (
	_ list.Item = endpointItem{}
)

// endpointItem wraps [models.Endpoint] to implement [list.Item].
type endpointItem struct {
	endpoint models.Endpoint
}

func (i endpointItem) FilterValue() string { return i.endpoint.Path }
func (i endpointItem) Title() string       { return fmt.Sprintf("%-7s %s", i.endpoint.Method, i.endpoint.Path) }
func (i endpointItem) Description() string { return i.endpoint.Description }

func endpointItems(teamID string) []list.Item {
	endpoints := models.Catalog(teamID)
	items := make([]list.Item, len(endpoints))
	for i, ep := range endpoints {
		items[i] = endpointItem{endpoint: ep}
	}
	return items
}
