package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/views/contracts"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/tui/views/report"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	contractsView *contracts.View
	reportView    *report.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s)
	bar.SetBindings(km.ListHelp())

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		help:          help.New(),
		contractsView: contracts.NewView(s, km, ports.Contracts),
		reportView:    report.NewView(s, km, ports.Contracts),
		statusBar:     bar,
		currentView:   messages.ViewContracts,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("taxclause"),
		a.contractsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ContractsLoaded:
		a.contractsView, cmd = a.contractsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else {
			a.err = nil
			a.statusBar.Clear()
			a.statusBar.SetCount(a.contractsView.Count())
		}
		return a, cmd

	case messages.ContractSelected:
		a.setView(messages.ViewReport)
		return a, a.reportView.Load(msg.ID)

	case messages.EvaluationLoaded:
		a.reportView, cmd = a.reportView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.ViewChanged:
		a.setView(msg.View)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink, mouse) to the active view.
	switch a.currentView {
	case messages.ViewContracts:
		a.contractsView, cmd = a.contractsView.Update(msg)
	case messages.ViewReport:
		a.reportView, cmd = a.reportView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	// While filtering every printable key belongs to the filter.
	if a.currentView == messages.ViewContracts && a.contractsView.Filtering() {
		a.contractsView, cmd = a.contractsView.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.setView(messages.ViewContracts)
		} else {
			a.setView(messages.ViewHelp)
		}
		return a, nil
	}

	switch a.currentView {
	case messages.ViewContracts:
		a.contractsView, cmd = a.contractsView.Update(msg)
	case messages.ViewReport:
		a.reportView, cmd = a.reportView.Update(msg)
	case messages.ViewHelp:
		if key.Matches(msg, a.keymap.Back) {
			a.setView(messages.ViewContracts)
		}
	}
	return a, cmd
}

func (a *App) setView(v messages.ViewType) {
	a.currentView = v
	switch v {
	case messages.ViewReport:
		a.statusBar.SetBindings(a.keymap.ReportHelp())
	case messages.ViewContracts, messages.ViewHelp:
		a.statusBar.SetBindings(a.keymap.ListHelp())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewReport:
		body = a.reportView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.contractsView.View()
	}

	// Pin the status bar to the bottom line.
	lines := strings.Count(body, "\n") + 1
	if pad := a.height - lines - 1; pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	a.help.ShowAll = true
	a.help.Width = a.width
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.View(a.keymap) + "\n\n" +
		a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.contractsView.SetDimensions(width, height-1)
	a.reportView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
