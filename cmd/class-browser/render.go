package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"class-browser/internal/navigate"
	"class-browser/internal/outline"
	"class-browser/internal/tree"
)

// Styles
var (
	rootStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTree prints root and its descendants, two spaces per level,
// directories with a trailing '/'. Children keep insertion order.
func renderTree(w io.Writer, root *tree.Node) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, rootStyle.Render(root.Name))
	tree.Walk(root, func(path []string, n *tree.Node) bool {
		indent := strings.Repeat("  ", len(path))
		switch {
		case len(n.Children) > 0:
			fmt.Fprintln(bw, indent+dirStyle.Render(n.Name+"/"))
		default:
			fmt.Fprintln(bw, indent+n.Name)
		}
		return true
	})
	return bw.Flush()
}

// writeContent prints resolved content. Binary content is summarized
// rather than dumped to the terminal.
func writeContent(w io.Writer, c navigate.Content, withOutline bool) error {
	var err error
	switch {
	case c.Binary:
		_, err = fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%s: binary, %d bytes", c.Name, len(c.Data))))
	case withOutline:
		_, err = io.WriteString(w, outline.Java([]byte(c.Text)).String())
	default:
		text := c.Text
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err = io.WriteString(w, text)
	}
	return err
}

// preview renders the first lines of content for the picker's preview pane.
func preview(c navigate.Content, err error, height int) string {
	if err != nil {
		return dimStyle.Render(err.Error())
	}
	if c.Binary {
		return dimStyle.Render(fmt.Sprintf("binary, %d bytes", len(c.Data)))
	}
	lines := strings.Split(c.Text, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
