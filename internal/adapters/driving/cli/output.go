package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// render writes v as JSON or YAML, or calls text for the text format.
func render(w io.Writer, v any, text func(p *palette)) error {
	switch outputFormat {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		text(newPalette(w))
		return nil
	}
}

// palette styles text output. Colours are only used on terminals.
type palette struct {
	w       io.Writer
	heading lipgloss.Style
	clause  lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	high    lipgloss.Style
	medium  lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	p := &palette{
		w:       w,
		heading: r.NewStyle(),
		clause:  r.NewStyle(),
		muted:   r.NewStyle(),
		ok:      r.NewStyle(),
		high:    r.NewStyle(),
		medium:  r.NewStyle(),
	}
	if isTerminal(w) {
		p.heading = p.heading.Bold(true)
		p.clause = p.clause.Foreground(lipgloss.Color("#06B6D4"))
		p.muted = p.muted.Foreground(lipgloss.Color("#6C7086"))
		p.ok = p.ok.Foreground(lipgloss.Color("#A6E3A1"))
		p.high = p.high.Bold(true).Foreground(lipgloss.Color("#F38BA8"))
		p.medium = p.medium.Foreground(lipgloss.Color("#F9E2AF"))
	}
	return p
}

func (p *palette) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *palette) severity(s domain.Severity) string {
	label := "[" + string(s) + "]"
	switch s {
	case domain.SeverityHigh:
		return p.high.Render(label)
	case domain.SeverityMedium:
		return p.medium.Render(label)
	default:
		return p.muted.Render(label)
	}
}

func (p *palette) flag(present bool) string {
	if present {
		return p.ok.Render("yes")
	}
	return p.muted.Render("no")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
