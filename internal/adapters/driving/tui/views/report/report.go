// Package report renders the tax evaluation of a single contract.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
)

// headerLines is the space taken by the title above the viewport.
const headerLines = 2

// View shows one evaluation in a scrollable viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	contracts driving.ContractService
	viewport  viewport.Model

	id         string
	evaluation *domain.Evaluation
	loading    bool
	err        error
}

// NewView creates a new report view.
func NewView(s *styles.Styles, km *keymap.KeyMap, contracts driving.ContractService) *View {
	return &View{
		styles:    s,
		keymap:    km,
		contracts: contracts,
		viewport:  viewport.New(80, 20),
	}
}

// Load starts evaluating the contract id.
func (v *View) Load(id string) tea.Cmd {
	v.id = id
	v.evaluation = nil
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	return func() tea.Msg {
		if v.contracts == nil {
			return messages.EvaluationLoaded{ID: id, Err: fmt.Errorf("contract service not available")}
		}
		eval, err := v.contracts.Evaluate(context.Background(), id)
		return messages.EvaluationLoaded{ID: id, Evaluation: eval, Err: err}
	}
}

// Update handles messages for the report view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.EvaluationLoaded:
		if msg.ID != v.id {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.evaluation = msg.Evaluation
		if v.err == nil {
			v.viewport.SetContent(v.render())
		}
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keymap.Back) {
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewContracts} }
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the report.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Evaluation: " + v.id))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Evaluating..."))
	case errors.Is(v.err, domain.ErrNotFound):
		b.WriteString(v.styles.Error.Render("Contract not found."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	default:
		b.WriteString(v.viewport.View())
	}
	return b.String()
}

func (v *View) render() string {
	if v.evaluation == nil {
		return ""
	}
	e := v.evaluation
	s := v.styles
	var b strings.Builder

	b.WriteString(s.Subtitle.Render("Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s withholding tax   %s gross-up   %s VAT\n\n",
		s.Flag(e.Summary.WithholdingTax), s.Flag(e.Summary.GrossUp), s.Flag(e.Summary.VAT))

	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Issues (%d)", len(e.Issues))))
	b.WriteString("\n")
	if len(e.Issues) == 0 {
		b.WriteString(s.Success.Render("  No issues found."))
		b.WriteString("\n")
	}
	for _, issue := range e.Issues {
		sev := s.Severity(issue.Severity).Render(strings.ToUpper(string(issue.Severity)))
		fmt.Fprintf(&b, "  [%s] %s\n", sev, issue.ID)
		fmt.Fprintf(&b, "      %s\n", issue.Explanation)
		fmt.Fprintf(&b, "      %s %s\n", s.Muted.Render("→"), issue.Suggestion)
	}
	b.WriteString("\n")

	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Clauses (%d)", len(e.Clauses))))
	b.WriteString("\n")
	for _, c := range e.Clauses {
		fmt.Fprintf(&b, "  %s %q %s\n",
			s.Clause.Render(string(c.Name)), c.Match,
			s.Muted.Render(fmt.Sprintf("[%d:%d]", c.Span[0], c.Span[1])))
		b.WriteString(s.Snippet.Render(c.Snippet))
		b.WriteString("\n")
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	h := height - headerLines - 1
	if h < 1 {
		h = 1
	}
	v.viewport.Height = h
}

// ID returns the contract being shown.
func (v *View) ID() string {
	return v.id
}

// Evaluation returns the loaded evaluation, if any.
func (v *View) Evaluation() *domain.Evaluation {
	return v.evaluation
}

// Err returns the last evaluation error.
func (v *View) Err() error {
	return v.err
}
