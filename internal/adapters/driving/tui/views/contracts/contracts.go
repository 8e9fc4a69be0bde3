// Package contracts provides the contract list view for the TUI.
package contracts

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
)

// View lists indexed contracts with an optional id filter.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	contracts driving.ContractService
	filter    *input.FilterInput

	all      []domain.ContractSummary
	visible  []domain.ContractSummary
	selected int
	width    int
	height   int
	loading  bool
	err      error
}

// NewView creates a new contract list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, contracts driving.ContractService) *View {
	return &View{
		styles:    s,
		keymap:    km,
		contracts: contracts,
		filter:    input.NewFilterInput(s),
		all:       []domain.ContractSummary{},
		visible:   []domain.ContractSummary{},
	}
}

// Init loads the contract list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.contracts == nil {
			return messages.ContractsLoaded{Err: fmt.Errorf("contract service not available")}
		}
		list, err := v.contracts.List(context.Background())
		return messages.ContractsLoaded{Contracts: list, Err: err}
	}
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ContractsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.all = msg.Contracts
		v.applyFilter()
		return v, nil

	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.handleFilterKey(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filter.Reset()
		v.applyFilter()
		return v, nil
	case tea.KeyEnter:
		v.filter.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.applyFilter()
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.visible)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Select):
		if c, ok := v.Selected(); ok {
			id := c.ID
			return v, func() tea.Msg { return messages.ContractSelected{ID: id} }
		}
	case key.Matches(msg, v.keymap.Filter):
		return v, v.filter.Focus()
	case key.Matches(msg, v.keymap.Back):
		if v.filter.Value() != "" {
			v.filter.Reset()
			v.applyFilter()
		}
	case key.Matches(msg, v.keymap.Reload):
		v.loading = true
		return v, v.load()
	}
	return v, nil
}

func (v *View) applyFilter() {
	v.visible = v.visible[:0]
	for _, c := range v.all {
		if v.filter.Matches(c.ID) {
			v.visible = append(v.visible, c)
		}
	}
	if v.selected >= len(v.visible) {
		v.selected = len(v.visible) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// View renders the contract list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Contracts"))
	b.WriteString("\n\n")

	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading contracts..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.all) == 0:
		b.WriteString(v.styles.Muted.Render("No contracts indexed. Use `taxclause index` or `taxclause ingest`."))
	case len(v.visible) == 0:
		b.WriteString(v.styles.Muted.Render("No contracts match the filter."))
	default:
		for i := range v.visible {
			b.WriteString(v.renderRow(i, &v.visible[i]))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (v *View) renderRow(index int, c *domain.ContractSummary) string {
	id := c.ID
	if id == "" {
		id = `""`
	}
	size := fmt.Sprintf("%d chars", c.Length)

	maxID := v.width - len(size) - 8
	if maxID < 10 {
		maxID = 10
	}
	if len(id) > maxID {
		id = id[:maxID-3] + "..."
	}

	if index == v.selected {
		line := fmt.Sprintf("> %s  %s", id, size)
		if c.Title != "" {
			line += "  " + c.Title
		}
		return v.styles.Selected.Render(line)
	}

	line := v.styles.Normal.Render("  "+id) + "  " + v.styles.Muted.Render(size)
	if c.Title != "" {
		line += "  " + v.styles.Subtitle.Render(c.Title)
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.filter.SetWidth(width)
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Selected returns the highlighted contract.
func (v *View) Selected() (domain.ContractSummary, bool) {
	if v.selected < 0 || v.selected >= len(v.visible) {
		return domain.ContractSummary{}, false
	}
	return v.visible[v.selected], true
}

// Visible returns the contracts that pass the filter.
func (v *View) Visible() []domain.ContractSummary {
	return v.visible
}

// Count returns the total number of loaded contracts.
func (v *View) Count() int {
	return len(v.all)
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
