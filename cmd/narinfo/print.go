package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/narkit/nar"
)

var (
	dirStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	execStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDA0DD"))

	commentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// colorEnabled resolves the color mode for out. Auto colors only terminals.
func colorEnabled(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func render(s lipgloss.Style) func(string) string {
	return func(text string) string { return s.Render(text) }
}

func treeStyle(color bool) nar.TreeStyle {
	if !color {
		return nar.TreeStyle{}
	}
	return nar.TreeStyle{
		Dir:     render(dirStyle),
		Exec:    render(execStyle),
		Link:    render(linkStyle),
		Comment: render(commentStyle),
	}
}

func printTree(w io.Writer, a *nar.Archive, name string, color bool) error {
	return nar.WriteTree(w, a.Root, nar.TreeOptions{
		Root:  name,
		Sizes: true,
		Style: treeStyle(color),
	})
}

func printSexpr(w io.Writer, a *nar.Archive) error {
	_, err := fmt.Fprintln(w, nar.Format(a.Root))
	return err
}

// printList writes one line per node: mode, size and path, in the
// layout of ls -l without owners or times.
func printList(w io.Writer, a *nar.Archive) error {
	fsys := nar.NewFS(a.Root)
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s %10d %s", info.Mode(), info.Size(), path)
		if info.Mode().Type() == fs.ModeSymlink {
			target, err := fsys.ReadLink(path)
			if err != nil {
				return err
			}
			line += " -> " + target
		}
		_, err = fmt.Fprintln(w, line)
		return err
	})
}

func printFile(w io.Writer, a *nar.Archive, path string) error {
	data, err := nar.NewFS(a.Root).ReadFile(path)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
