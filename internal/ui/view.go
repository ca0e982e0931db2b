package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todo-go/internal/app"
	"github.com/nibzard/todo-go/internal/todo"
)

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	faint    lipgloss.Style
	warn     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		done:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		faint:    lipgloss.NewStyle().Faint(true),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
}

func writeTitle(b *strings.Builder, st styles, title string) {
	b.WriteString(st.title.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeStats(b *strings.Builder, st styles, store *app.TodoStore) {
	stats := store.Stats()
	if stats.Total == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("%d of %d completed (%.0f%%), %d remaining\n",
		stats.Completed, stats.Total, stats.Percent(), stats.Remaining))
	b.WriteString(progressBar(stats, 30) + "\n\n")
}

// progressBar renders a fixed-width text bar for stats.
func progressBar(stats todo.Stats, width int) string {
	filled := 0
	if stats.Total > 0 {
		filled = stats.Completed * width / stats.Total
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a            Add a task\n")
	b.WriteString("  e, enter     Edit the selected task\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  d            Delete the selected task\n")
	b.WriteString("  c            Clear completed tasks\n")
	b.WriteString("  C            Clear all tasks\n")
	b.WriteString("  j, k         Move down, up\n")
	b.WriteString("  g, G         Jump to first, last\n")
	b.WriteString("  ?, h         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
	b.WriteString("While typing: enter saves, esc cancels.\n\n")
}

func writeFooter(b *strings.Builder, st styles, location string) {
	footer := "Press ? for help | q to quit"
	if location != "" {
		footer += " | " + location
	}
	b.WriteString(st.faint.Render(footer) + "\n")
}

func formatTask(st styles, t todo.Task, selected bool) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s", mark, t.Text)
	switch {
	case selected:
		return st.selected.Render(line)
	case t.Completed:
		return st.done.Render(line)
	default:
		return line
	}
}
