package main

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/narkit/nar"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const previewLines = 12

type frame struct {
	dir    *nar.Directory
	name   string
	cursor int
}

type browserModel struct {
	filename  string
	stack     []frame
	filter    textinput.Model
	filtering bool
}

func newBrowserModel(filename string, a *nar.Archive) *browserModel {
	dir, ok := a.Root.(*nar.Directory)
	if !ok {
		// Show a single-file archive as a directory holding it.
		dir = &nar.Directory{Entries: []nar.DirEntry{{Name: []byte(filename), Node: a.Root}}}
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.Width = 40

	return &browserModel{
		filename: filename,
		stack:    []frame{{dir: dir}},
		filter:   ti,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) top() *frame {
	return &m.stack[len(m.stack)-1]
}

// visible returns the entries of the current directory that pass the filter.
func (m *browserModel) visible() []nar.DirEntry {
	entries := m.top().dir.Entries
	q := m.filter.Value()
	if q == "" {
		return entries
	}
	var out []nar.DirEntry
	for _, e := range entries {
		if bytes.Contains(e.Name, []byte(q)) {
			out = append(out, e)
		}
	}
	return out
}

func (m *browserModel) selected() (nar.DirEntry, bool) {
	vis := m.visible()
	c := m.top().cursor
	if c < 0 || c >= len(vis) {
		return nar.DirEntry{}, false
	}
	return vis[c], true
}

// path returns the slash-separated location of the current directory.
func (m *browserModel) path() string {
	var parts []string
	for _, f := range m.stack[1:] {
		parts = append(parts, f.name)
	}
	return "/" + strings.Join(parts, "/")
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch key.String() {
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.top().cursor = 0
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.top().cursor = 0
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.top().cursor > 0 {
			m.top().cursor--
		}

	case "down", "j":
		if m.top().cursor < len(m.visible())-1 {
			m.top().cursor++
		}

	case "enter", "right", "l":
		e, ok := m.selected()
		if !ok {
			break
		}
		if d, ok := e.Node.(*nar.Directory); ok {
			m.stack = append(m.stack, frame{dir: d, name: string(e.Name)})
			m.filter.SetValue("")
		}

	case "backspace", "left", "h":
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			m.filter.SetValue("")
		}

	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case "esc":
		m.filter.SetValue("")
		m.top().cursor = 0
	}

	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("NAR Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(m.path())
	b.WriteString("\n\n")

	vis := m.visible()
	if len(vis) == 0 {
		b.WriteString(helpStyle.Render("(empty)"))
		b.WriteString("\n")
	}
	for i, e := range vis {
		line := entryLabel(e)
		if i == m.top().cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString("\n")
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	if e, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(preview(e.Node))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter open • backspace up • / filter • q quit"))

	return b.String()
}

func entryLabel(e nar.DirEntry) string {
	name := string(e.Name)
	switch n := e.Node.(type) {
	case *nar.Directory:
		return dirStyle.Render(name + "/")
	case *nar.Symlink:
		return linkStyle.Render(name) + " -> " + string(n.Target)
	case *nar.Regular:
		if n.Executable {
			return execStyle.Render(name + "*")
		}
		return name
	}
	return name
}

// preview summarizes a node: the head of a text file, the size of a binary
// one, a link target or a directory's entry count.
func preview(e nar.Entry) string {
	switch n := e.(type) {
	case *nar.Directory:
		return helpStyle.Render(fmt.Sprintf("directory, %d entries", n.Len()))
	case *nar.Symlink:
		return previewStyle.Render("-> " + string(n.Target))
	case *nar.Regular:
		if !utf8.Valid(n.Contents) || bytes.IndexByte(n.Contents, 0) >= 0 {
			return helpStyle.Render(fmt.Sprintf("binary file, %d bytes", len(n.Contents)))
		}
		lines := strings.SplitN(string(n.Contents), "\n", previewLines+1)
		if len(lines) > previewLines {
			lines = append(lines[:previewLines], "…")
		}
		return previewStyle.Render(strings.Join(lines, "\n"))
	}
	return ""
}

func runInteractive(filename string, a *nar.Archive) error {
	p := tea.NewProgram(newBrowserModel(filename, a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
