package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/interop/dispatch"
	"github.com/wippyai/interop/registry"
	"github.com/wippyai/interop/tagspace"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	bindingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// visibleRows bounds the kind list so it fits a small terminal.
const visibleRows = 20

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse active kinds and round-trip values through native memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("browse needs an interactive terminal; use list or resolve instead")
			}
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			p := tea.NewProgram(newBrowseModel(d, a.cfg.HeapPages), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type browseState int

const (
	stateSelectKind browseState = iota
	stateInputValue
	stateShowResult
)

type browseModel struct {
	err      error
	d        *dispatch.Dispatcher
	entries  []registry.Entry
	input    textinput.Model
	result   []string
	pages    uint32
	selected int
	offset   int
	state    browseState
}

type roundTripMsg struct {
	err    error
	report report
}

func newBrowseModel(d *dispatch.Dispatcher, pages uint32) *browseModel {
	return &browseModel{
		d:       d,
		entries: d.Registry().Entries(),
		pages:   pages,
		state:   stateSelectKind,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) current() tagspace.Decl {
	decl, _ := m.d.Registry().Space().Lookup(m.entries[m.selected].ID)
	return decl
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputValue {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectKind && m.selected > 0 {
				m.selected--
				if m.selected < m.offset {
					m.offset = m.selected
				}
				return m, nil
			}

		case "down", "j":
			if m.state == stateSelectKind && m.selected < len(m.entries)-1 {
				m.selected++
				if m.selected >= m.offset+visibleRows {
					m.offset = m.selected - visibleRows + 1
				}
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectKind:
				if len(m.entries) == 0 {
					return m, nil
				}
				m.prepareInput()
				m.state = stateInputValue
				return m, textinput.Blink

			case stateInputValue:
				return m, m.roundTrip(m.input.Value())

			case stateShowResult:
				m.state = stateSelectKind
				m.result = nil
				m.err = nil
				return m, nil
			}

		case "esc":
			switch m.state {
			case stateInputValue:
				m.state = stateSelectKind
			case stateShowResult:
				m.state = stateSelectKind
				m.result = nil
				m.err = nil
			}
			return m, nil
		}

	case roundTripMsg:
		m.err = msg.err
		m.result = nil
		if msg.report.Value != nil {
			m.result = msg.report.lines()
		}
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputValue {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browseModel) prepareInput() {
	decl := m.current()
	ti := textinput.New()
	ti.Placeholder = hint(decl.Converter)
	ti.Prompt = "value: "
	ti.Width = 40
	ti.Focus()
	m.input = ti
}

func (m *browseModel) roundTrip(text string) tea.Cmd {
	decl := m.current()
	return func() tea.Msg {
		r, err := roundTrip(context.Background(), m.d, decl, text, m.pages)
		return roundTripMsg{report: r, err: err}
	}
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Marshal Kinds"))
	b.WriteString(" ")
	b.WriteString(m.d.Registry().Features().String())
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString("No kinds are active under this profile.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	switch m.state {
	case stateSelectKind:
		end := min(m.offset+visibleRows, len(m.entries))
		for i := m.offset; i < end; i++ {
			line := formatEntry(m.entries[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d • ↑/↓ select • enter round-trip • q quit", m.selected+1, len(m.entries))))

	case stateInputValue:
		decl := m.current()
		b.WriteString(fmt.Sprintf("Round-trip %s through %s\n\n", kindStyle.Render(decl.Name), bindingStyle.Render(decl.Converter)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter convert • esc back"))

	case stateShowResult:
		decl := m.current()
		b.WriteString(fmt.Sprintf("%s via %s:\n\n", kindStyle.Render(decl.Name), bindingStyle.Render(decl.Converter)))
		for _, line := range m.result {
			b.WriteString(resultStyle.Render(line))
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatEntry(e registry.Entry) string {
	return fmt.Sprintf("%3d %s %s", e.ID, kindStyle.Render(e.Name), bindingStyle.Render(e.Converter))
}
