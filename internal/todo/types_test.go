package todo

import (
	"math"
	"testing"
)

func sample() List {
	return List{
		{ID: 1, Text: "buy milk"},
		{ID: 2, Text: "call mom", Completed: true},
		{ID: 3, Text: "write report"},
	}
}

func TestAddTask(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantText string
		wantOK   bool
	}{
		{"plain", "buy bread", "buy bread", true},
		{"trimmed", "  buy bread \t", "buy bread", true},
		{"inner spaces kept", " a  b ", "a  b", true},
		{"empty", "", "", false},
		{"spaces only", "   ", "", false},
		{"tabs and newlines", "\t\n ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sample()
			got, ok := l.AddTask(tt.raw, 99)
			if ok != tt.wantOK {
				t.Fatalf("AddTask(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				if !got.Equal(l) {
					t.Errorf("rejected AddTask changed the list: %+v", got)
				}
				return
			}
			if got.Len() != l.Len()+1 {
				t.Fatalf("Len: got %d, want %d", got.Len(), l.Len()+1)
			}
			last := got[got.Len()-1]
			if last.Text != tt.wantText {
				t.Errorf("Text: got %q, want %q", last.Text, tt.wantText)
			}
			if last.Completed {
				t.Error("new task should not be completed")
			}
			if last.ID != 99 {
				t.Errorf("ID: got %d, want 99", last.ID)
			}
		})
	}
}

func TestAddTaskDoesNotAliasInput(t *testing.T) {
	l := make(List, 1, 4)
	l[0] = Task{ID: 1, Text: "first"}

	a, _ := l.AddTask("a", 2)
	b, _ := l.AddTask("b", 3)

	if a[1].Text != "a" {
		t.Errorf("first append was overwritten: got %q", a[1].Text)
	}
	if b[1].Text != "b" {
		t.Errorf("second append: got %q", b[1].Text)
	}
}

func TestDeleteTask(t *testing.T) {
	l := sample()

	once, ok := l.DeleteTask(2)
	if !ok {
		t.Fatal("DeleteTask(2) should report a change")
	}
	want := List{{ID: 1, Text: "buy milk"}, {ID: 3, Text: "write report"}}
	if !once.Equal(want) {
		t.Errorf("DeleteTask(2): got %+v, want %+v", once, want)
	}

	twice, ok := once.DeleteTask(2)
	if ok {
		t.Error("second DeleteTask(2) should be a no-op")
	}
	if !twice.Equal(once) {
		t.Errorf("DeleteTask is not idempotent: %+v vs %+v", twice, once)
	}

	if !l.Equal(sample()) {
		t.Error("DeleteTask modified its receiver")
	}
}

func TestToggleComplete(t *testing.T) {
	l := sample()

	for _, task := range l {
		toggled, ok := l.ToggleComplete(task.ID)
		if !ok {
			t.Fatalf("ToggleComplete(%d) reported no change", task.ID)
		}
		got, _ := toggled.GetTask(task.ID)
		if got.Completed == task.Completed {
			t.Errorf("ToggleComplete(%d) did not flip completed", task.ID)
		}
		back, _ := toggled.ToggleComplete(task.ID)
		if !back.Equal(l) {
			t.Errorf("double toggle of %d: got %+v, want %+v", task.ID, back, l)
		}
	}

	if _, ok := l.ToggleComplete(42); ok {
		t.Error("ToggleComplete of unknown id should be a no-op")
	}
}

func TestEditTask(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		raw      string
		wantText string
		wantOK   bool
	}{
		{"empty keeps text", 1, "", "buy milk", false},
		{"spaces keep text", 1, "   ", "buy milk", false},
		{"trimmed replacement", 1, "  new text ", "new text", true},
		{"same text", 1, "buy milk", "buy milk", false},
		{"unknown id", 42, "whatever", "buy milk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sample().EditTask(tt.id, tt.raw)
			if ok != tt.wantOK {
				t.Errorf("ok: got %v, want %v", ok, tt.wantOK)
			}
			task, _ := got.GetTask(1)
			if task.Text != tt.wantText {
				t.Errorf("Text: got %q, want %q", task.Text, tt.wantText)
			}
		})
	}
}

func TestClearAll(t *testing.T) {
	for _, l := range []List{nil, {}, sample()} {
		got, _ := l.ClearAll()
		if got.Len() != 0 {
			t.Errorf("ClearAll(%+v): got %d tasks", l, got.Len())
		}
	}

	if _, ok := List(nil).ClearAll(); ok {
		t.Error("ClearAll of an empty list should report no change")
	}
}

func TestClearCompleted(t *testing.T) {
	got, ok := sample().ClearCompleted()
	if !ok {
		t.Fatal("ClearCompleted should report a change")
	}
	if got.Len() != 2 || got.Index(2) >= 0 {
		t.Errorf("ClearCompleted: got %+v", got)
	}

	if _, ok := got.ClearCompleted(); ok {
		t.Error("ClearCompleted without completed tasks should be a no-op")
	}
}

func TestStats(t *testing.T) {
	tests := []struct {
		name        string
		list        List
		want        Stats
		wantPercent float64
	}{
		{"empty", nil, Stats{}, 0},
		{"sample", sample(), Stats{Total: 3, Completed: 1, Remaining: 2}, 100.0 / 3},
		{"all done", List{{ID: 1, Text: "a", Completed: true}}, Stats{Total: 1, Completed: 1}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.list.Stats()
			if got != tt.want {
				t.Errorf("Stats: got %+v, want %+v", got, tt.want)
			}
			if p := got.Percent(); math.Abs(p-tt.wantPercent) > 1e-9 {
				t.Errorf("Percent: got %v, want %v", p, tt.wantPercent)
			}
		})
	}
}

func TestMaxID(t *testing.T) {
	if got := List(nil).MaxID(); got != 0 {
		t.Errorf("MaxID(nil): got %d, want 0", got)
	}
	l := List{{ID: 5, Text: "a"}, {ID: 12, Text: "b"}, {ID: 7, Text: "c"}}
	if got := l.MaxID(); got != 12 {
		t.Errorf("MaxID: got %d, want 12", got)
	}
}
