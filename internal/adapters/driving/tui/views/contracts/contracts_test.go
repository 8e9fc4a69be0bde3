package contracts

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/taxclause/internal/core/domain"
)

type stubContracts struct {
	list []domain.ContractSummary
	err  error
}

func (s *stubContracts) Index(context.Context, string, string) error { return nil }
func (s *stubContracts) IndexContract(context.Context, domain.Contract) error { return nil }
func (s *stubContracts) GetClauses(context.Context, string) (*domain.ClauseReport, error) {
	return nil, domain.ErrNotFound
}
func (s *stubContracts) Evaluate(context.Context, string) (*domain.Evaluation, error) {
	return nil, domain.ErrNotFound
}
func (s *stubContracts) List(context.Context) ([]domain.ContractSummary, error) {
	return s.list, s.err
}

func newLoadedView(t *testing.T, list []domain.ContractSummary) *View {
	t.Helper()
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), &stubContracts{list: list})
	v.SetDimensions(80, 24)
	msg := v.Init()()
	v, _ = v.Update(msg)
	return v
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var sample = []domain.ContractSummary{
	{ID: "alpha-msa", Title: "Alpha MSA", Length: 120},
	{ID: "beta-nda", Length: 40},
	{ID: "gamma-msa", Length: 7},
}

func TestView_Loads(t *testing.T) {
	v := newLoadedView(t, sample)

	assert.Equal(t, 3, v.Count())
	assert.NoError(t, v.Err())
	out := v.View()
	assert.Contains(t, out, "alpha-msa")
	assert.Contains(t, out, "Alpha MSA")
	assert.Contains(t, out, "120 chars")
}

func TestView_LoadError(t *testing.T) {
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), &stubContracts{err: errors.New("db down")})
	v, _ = v.Update(v.Init()())

	assert.EqualError(t, v.Err(), "db down")
	assert.Contains(t, v.View(), "Error: db down")
}

func TestView_NilService(t *testing.T) {
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), nil)
	v, _ = v.Update(v.Init()())

	assert.Error(t, v.Err())
}

func TestView_Navigation(t *testing.T) {
	v := newLoadedView(t, sample)

	v, _ = v.Update(press("k"))
	sel, _ := v.Selected()
	assert.Equal(t, "alpha-msa", sel.ID, "up at top stays")

	v, _ = v.Update(press("j"))
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v, _ = v.Update(press("j"))
	sel, _ = v.Selected()
	assert.Equal(t, "gamma-msa", sel.ID, "down at bottom stays")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ContractSelected{ID: "gamma-msa"}, cmd())
}

func TestView_Filter(t *testing.T) {
	v := newLoadedView(t, sample)

	v, _ = v.Update(press("/"))
	require.True(t, v.Filtering())

	for _, r := range "MSA" {
		v, _ = v.Update(press(string(r)))
	}
	require.Len(t, v.Visible(), 2)
	assert.Equal(t, "alpha-msa", v.Visible()[0].ID)
	assert.Equal(t, "gamma-msa", v.Visible()[1].ID)

	// Enter leaves filter mode but keeps the filter.
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, v.Filtering())
	assert.Len(t, v.Visible(), 2)
	assert.Contains(t, v.View(), "Filter:")

	// Esc outside filter mode clears it.
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, v.Visible(), 3)
}

func TestView_FilterNoMatch(t *testing.T) {
	v := newLoadedView(t, sample)

	v, _ = v.Update(press("/"))
	v, _ = v.Update(press("z"))

	assert.Empty(t, v.Visible())
	_, ok := v.Selected()
	assert.False(t, ok)
	assert.Contains(t, v.View(), "No contracts match the filter.")
}

func TestView_SelectionClampedByFilter(t *testing.T) {
	v := newLoadedView(t, sample)
	v, _ = v.Update(press("j"))
	v, _ = v.Update(press("j"))

	v, _ = v.Update(press("/"))
	v, _ = v.Update(press("a"))
	v, _ = v.Update(press("l"))

	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "alpha-msa", sel.ID)
}

func TestView_Reload(t *testing.T) {
	stub := &stubContracts{list: sample[:1]}
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), stub)
	v, _ = v.Update(v.Init()())
	require.Equal(t, 1, v.Count())

	stub.list = sample
	v, cmd := v.Update(press("r"))
	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "Loading contracts...")

	v, _ = v.Update(cmd())
	assert.Equal(t, 3, v.Count())
}

func TestView_EmptyIDRendered(t *testing.T) {
	v := newLoadedView(t, []domain.ContractSummary{{ID: ""}})

	assert.Contains(t, v.View(), `""`)
}
