package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/app"
	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/todo"
)

func newTestModel(t *testing.T, texts ...string) (*tuiModel, *app.TodoStore) {
	t.Helper()
	store := app.New(context.Background(), kv.NewMemoryStore(0))
	for _, text := range texts {
		if _, ok := store.AddTask(text); !ok {
			t.Fatalf("AddTask(%q) failed", text)
		}
	}
	return newTUIModel(store, &tuiConfig{title: "Todo"}), store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *tuiModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func typeText(m *tuiModel, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func texts(l todo.List) []string {
	out := make([]string, 0, len(l))
	for _, task := range l {
		out = append(out, task.Text)
	}
	return out
}

func TestTUIAddTask(t *testing.T) {
	m, store := newTestModel(t)

	send(m, "a")
	if m.mode != modeAdd {
		t.Fatalf("mode after a: got %v, want add", m.mode)
	}
	typeText(m, "buy milk")
	send(m, "enter")

	if m.mode != modeList {
		t.Errorf("mode after enter: got %v, want list", m.mode)
	}
	if got := texts(store.Tasks()); len(got) != 1 || got[0] != "buy milk" {
		t.Errorf("tasks: got %v", got)
	}
	if !strings.Contains(m.View(), "[ ] buy milk") {
		t.Errorf("view does not show the task:\n%s", m.View())
	}
}

func TestTUIAddBlankIgnored(t *testing.T) {
	m, store := newTestModel(t)
	send(m, "a")
	typeText(m, "   ")
	send(m, "enter")
	if store.Stats().Total != 0 {
		t.Errorf("blank add created a task: %+v", store.Tasks())
	}
}

func TestTUIAddCancel(t *testing.T) {
	m, store := newTestModel(t)
	send(m, "a")
	typeText(m, "never mind")
	send(m, "esc")
	if m.mode != modeList || store.Stats().Total != 0 {
		t.Errorf("esc should leave add mode without adding, mode=%v tasks=%d", m.mode, store.Stats().Total)
	}
}

func TestTUIToggleAndNavigate(t *testing.T) {
	m, store := newTestModel(t, "first", "second")

	send(m, "j", "x")
	tasks := store.Tasks()
	if tasks[0].Completed || !tasks[1].Completed {
		t.Errorf("toggle hit the wrong task: %+v", tasks)
	}

	send(m, "j")
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last task, got %d", m.cursor)
	}
	send(m, "k", "k", "k")
	if m.cursor != 0 {
		t.Errorf("cursor should stop at the first task, got %d", m.cursor)
	}

	view := m.View()
	if !strings.Contains(view, "[x] second") {
		t.Errorf("view missing completed task:\n%s", view)
	}
	if !strings.Contains(view, "1 of 2 completed (50%), 1 remaining") {
		t.Errorf("view missing stats:\n%s", view)
	}
}

func TestTUIEditSave(t *testing.T) {
	m, store := newTestModel(t, "old text")

	send(m, "e")
	if m.mode != modeEdit || !store.Editing().Active {
		t.Fatalf("e should open an edit session, mode=%v editing=%+v", m.mode, store.Editing())
	}
	if m.input.Value() != "old text" {
		t.Errorf("input should start with the task text, got %q", m.input.Value())
	}

	m.input.SetValue("")
	typeText(m, "  new text ")
	if got := store.Editing().Draft; got != "  new text " {
		t.Errorf("draft: got %q", got)
	}
	send(m, "enter")

	if store.Editing().Active {
		t.Error("enter should end the edit session")
	}
	if got := store.Tasks()[0].Text; got != "new text" {
		t.Errorf("text: got %q", got)
	}
}

func TestTUIEditCancel(t *testing.T) {
	m, store := newTestModel(t, "keep")

	send(m, "enter")
	typeText(m, " more")
	send(m, "esc")

	if store.Editing().Active {
		t.Error("esc should end the edit session")
	}
	if got := store.Tasks()[0].Text; got != "keep" {
		t.Errorf("text: got %q", got)
	}
}

func TestTUIEditBlankKeepsText(t *testing.T) {
	m, store := newTestModel(t, "keep")

	send(m, "e")
	m.input.SetValue("")
	send(m, "enter")
	if got := store.Tasks()[0].Text; got != "keep" {
		t.Errorf("text: got %q", got)
	}
}

func TestTUIDelete(t *testing.T) {
	m, store := newTestModel(t, "a", "b")
	send(m, "j", "d")

	if got := texts(store.Tasks()); len(got) != 1 || got[0] != "a" {
		t.Errorf("tasks: got %v", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor should follow the shorter list, got %d", m.cursor)
	}

	send(m, "d", "d")
	if store.Stats().Total != 0 {
		t.Errorf("tasks: got %+v", store.Tasks())
	}
	if !strings.Contains(m.View(), "Nothing to do") {
		t.Errorf("empty view:\n%s", m.View())
	}
}

func TestTUIClearCompleted(t *testing.T) {
	m, store := newTestModel(t, "a", "b")
	send(m, "c")
	if !strings.Contains(m.notice, "No completed") {
		t.Errorf("notice: got %q", m.notice)
	}
	send(m, "x", "c")
	if got := texts(store.Tasks()); len(got) != 1 || got[0] != "b" {
		t.Errorf("tasks: got %v", got)
	}
}

func TestTUIClearAllConfirm(t *testing.T) {
	m, store := newTestModel(t, "a", "b")

	send(m, "C")
	if m.mode != modeConfirmClear {
		t.Fatalf("C should ask for confirmation, mode=%v", m.mode)
	}
	if !strings.Contains(m.View(), "Delete all 2 tasks?") {
		t.Errorf("confirmation prompt missing:\n%s", m.View())
	}
	send(m, "n")
	if store.Stats().Total != 2 {
		t.Error("declining should keep the tasks")
	}

	send(m, "C", "y")
	if store.Stats().Total != 0 {
		t.Errorf("tasks after confirm: %+v", store.Tasks())
	}
}

func TestTUIPersistErrorShown(t *testing.T) {
	store := app.New(context.Background(), kv.NewMemoryStore(10))
	m := newTUIModel(store, &tuiConfig{title: "Todo"})

	send(m, "a")
	typeText(m, "this will not fit")
	send(m, "enter")

	if store.Stats().Total != 1 {
		t.Fatal("task should still be added in memory")
	}
	if !strings.Contains(m.View(), "Not saved") {
		t.Errorf("view should report the storage error:\n%s", m.View())
	}
}

func TestTUIPersistErrorOnlyAfterChange(t *testing.T) {
	store := app.New(context.Background(), kv.NewMemoryStore(10))
	m := newTUIModel(store, &tuiConfig{title: "Todo"})

	send(m, "a")
	typeText(m, "this will not fit")
	send(m, "enter")
	if !strings.Contains(m.notice, "Not saved") {
		t.Fatalf("notice after failed write: got %q", m.notice)
	}

	steps := []struct {
		name string
		keys []string
	}{
		{"blank add", []string{"a", "enter"}},
		{"edit without change", []string{"e", "enter"}},
		{"clear completed with none done", []string{"c"}},
	}
	for _, step := range steps {
		send(m, step.keys...)
		if strings.Contains(m.View(), "Not saved") {
			t.Errorf("%s: stale storage error shown:\n%s", step.name, m.View())
		}
	}
	if store.Stats().Total != 1 {
		t.Errorf("tasks: got %+v", store.Tasks())
	}
}

func TestTUIHelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	send(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Errorf("help view:\n%s", m.View())
	}
	send(m, "?")
	if m.showHelp {
		t.Error("second ? should close help")
	}

	for _, k := range []string{"q", "ctrl+c"} {
		cmd := send(m, k)
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", k)
		}
	}
}

func TestTUIQuitKeyTypedWhileAdding(t *testing.T) {
	m, store := newTestModel(t)
	send(m, "a")
	typeText(m, "q")
	send(m, "enter")
	if got := texts(store.Tasks()); len(got) != 1 || got[0] != "q" {
		t.Errorf("q in add mode should be text, got %v", got)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		stats todo.Stats
		want  string
	}{
		{todo.Stats{}, "[----]"},
		{todo.Stats{Total: 2, Completed: 1, Remaining: 1}, "[##--]"},
		{todo.Stats{Total: 3, Completed: 3}, "[####]"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.stats, 4); got != tt.want {
			t.Errorf("progressBar(%+v): got %q, want %q", tt.stats, got, tt.want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a TTY")
	}
}
