package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sahilm/fuzzy"
)

// scenarioItem adapts a scenario file path to bubbles/list.Item.
type scenarioItem struct{ path string }

func (s scenarioItem) Title() string       { return filepath.Base(s.path) }
func (s scenarioItem) Description() string { return s.path }
func (s scenarioItem) FilterValue() string { return s.path }

// scenarioSource implements fuzzy.Source so sahilm/fuzzy can rank
// scenario paths by how well they match the filter text the user types.
type scenarioSource []string

func (s scenarioSource) String(i int) string { return s[i] }
func (s scenarioSource) Len() int            { return len(s) }

type pickerModel struct {
	all    []string
	list   list.Model
	filter textinput.Model
	chosen string
	quit   bool
}

func newPickerModel(dir string) (*pickerModel, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	items := make([]list.Item, len(paths))
	for i, p := range paths {
		items[i] = scenarioItem{path: p}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "scenarios"
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Focus()

	return &pickerModel{all: paths, list: l, filter: ti}, nil
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-3)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(scenarioItem); ok {
				m.chosen = it.path
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()

	var listCmd tea.Cmd
	m.list, listCmd = m.list.Update(msg)
	return m, tea.Batch(cmd, listCmd)
}

func (m *pickerModel) applyFilter() {
	text := strings.TrimSpace(m.filter.Value())
	if text == "" {
		items := make([]list.Item, len(m.all))
		for i, p := range m.all {
			items[i] = scenarioItem{path: p}
		}
		m.list.SetItems(items)
		return
	}

	matches := fuzzy.FindFrom(text, scenarioSource(m.all))
	items := make([]list.Item, len(matches))
	for i, match := range matches {
		items[i] = scenarioItem{path: m.all[match.Index]}
	}
	m.list.SetItems(items)
}

var pickerTitleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func (m *pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("pick a scenario"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n")
	b.WriteString(m.list.View())
	if sel, ok := m.list.SelectedItem().(scenarioItem); ok {
		width := m.list.Width()
		if width <= 0 {
			width = 80
		}
		b.WriteString("\n")
		b.WriteString(wordwrap.String(sel.path, width))
	}
	return b.String()
}

// pickScenario runs the bubbletea fuzzy picker over scenario files in
// dir and returns the chosen path, or "" if the user cancelled.
func pickScenario(dir string) (string, error) {
	m, err := newPickerModel(dir)
	if err != nil {
		return "", err
	}
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	fm := final.(*pickerModel)
	if fm.quit {
		return "", nil
	}
	return fm.chosen, nil
}
