// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/app"
	"github.com/nibzard/todo-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	title    string
	location string
	altScr   bool
}

// WithTitle sets the heading shown above the list.
func WithTitle(title string) TUIOption {
	return func(c *tuiConfig) {
		if title != "" {
			c.title = title
		}
	}
}

// WithLocation sets the storage description shown in the footer.
func WithLocation(location string) TUIOption {
	return func(c *tuiConfig) {
		c.location = location
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScr = enabled
	}
}

// RunTUI runs the interactive UI over store until the user quits or ctx is
// cancelled.
func RunTUI(ctx context.Context, store *app.TodoStore, opts ...TUIOption) error {
	c := &tuiConfig{
		title:  "Todo",
		altScr: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScr {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(newTUIModel(store, c), programOpts...)
	_, err := program.Run()
	return err
}

type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeEdit
	modeConfirmClear
)

type tuiModel struct {
	store    *app.TodoStore
	cfg      *tuiConfig
	input    textinput.Model
	mode     inputMode
	cursor   int
	showHelp bool
	notice   string
	styles   styles
}

func newTUIModel(store *app.TodoStore, cfg *tuiConfig) *tuiModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500
	return &tuiModel{
		store:  store,
		cfg:    cfg,
		input:  ti,
		styles: defaultStyles(),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		case modeConfirmClear:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	if m.mode == modeAdd || m.mode == modeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?", "h":
		m.showHelp = !m.showHelp
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(m.store.Stats().Total-1, 0)
	case "a":
		m.mode = modeAdd
		m.input.Placeholder = "What needs to be done?"
		m.input.SetValue("")
		return m, m.input.Focus()
	case "e", "enter":
		task, ok := m.selected()
		if !ok || !m.store.StartEdit(task.ID) {
			return m, nil
		}
		m.mode = modeEdit
		m.input.Placeholder = ""
		m.input.SetValue(m.store.Editing().Draft)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case " ", "space", "x":
		if task, ok := m.selected(); ok {
			m.afterMutation(m.store.ToggleComplete(task.ID))
		}
	case "d", "delete":
		if task, ok := m.selected(); ok {
			m.afterMutation(m.store.DeleteTask(task.ID))
		}
	case "c":
		if m.store.ClearCompleted() {
			m.afterMutation(true)
		} else {
			m.notice = "No completed tasks."
		}
	case "C":
		if m.store.Stats().Total > 0 {
			m.mode = modeConfirmClear
		}
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		var changed bool
		if m.mode == modeAdd {
			if _, changed = m.store.AddTask(m.input.Value()); changed {
				m.cursor = m.store.Stats().Total - 1
			}
		} else {
			m.store.SetDraft(m.input.Value())
			changed = m.store.SaveEdit()
		}
		m.leaveInput()
		m.afterMutation(changed)
		return m, nil
	case "esc":
		if m.mode == modeEdit {
			m.store.CancelEdit()
		}
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeEdit {
		m.store.SetDraft(m.input.Value())
	}
	return m, cmd
}

func (m *tuiModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch msg.String() {
	case "y", "Y":
		m.afterMutation(m.store.ClearAll())
	default:
		m.notice = "Clear cancelled."
	}
	return m, nil
}

func (m *tuiModel) leaveInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

// afterMutation keeps the cursor on the list. A storage error is reported
// only when this command changed the list; otherwise it belongs to an
// earlier write.
func (m *tuiModel) afterMutation(changed bool) {
	m.clampCursor()
	if !changed {
		return
	}
	if err := m.store.LastPersistError(); err != nil {
		m.notice = "Not saved: " + err.Error()
	}
}

func (m *tuiModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	total := m.store.Stats().Total
	if m.cursor >= total {
		m.cursor = total - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	tasks := m.store.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.styles, m.cfg.title)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.styles, m.cfg.location)
		return b.String()
	}

	m.writeTasks(&b)

	switch m.mode {
	case modeAdd:
		b.WriteString("New task\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(m.styles.faint.Render("enter save | esc cancel") + "\n\n")
	case modeConfirmClear:
		b.WriteString(m.styles.warn.Render(fmt.Sprintf("Delete all %d tasks? (y/N)", m.store.Stats().Total)) + "\n\n")
	}

	if m.notice != "" {
		b.WriteString(m.styles.warn.Render(m.notice) + "\n\n")
	}
	writeStats(&b, m.styles, m.store)
	writeFooter(&b, m.styles, m.cfg.location)
	return b.String()
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	tasks := m.store.Tasks()
	if len(tasks) == 0 {
		b.WriteString(m.styles.faint.Render("  Nothing to do. Press a to add a task.") + "\n\n")
		return
	}
	for i, task := range tasks {
		pointer := "  "
		if i == m.cursor && m.mode == modeList {
			pointer = "> "
		}
		if m.mode == modeEdit && m.store.IsEditing(task.ID) {
			b.WriteString(pointer + m.input.View() + "\n")
			continue
		}
		b.WriteString(pointer + formatTask(m.styles, task, i == m.cursor) + "\n")
	}
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
