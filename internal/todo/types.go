package todo

import (
	"slices"
	"strings"
)

// Task represents a single to-do item.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// List is an ordered sequence of tasks. Insertion order is the only order.
type List []Task

// Len returns the number of tasks.
func (l List) Len() int {
	return len(l)
}

// Equal reports whether both lists hold the same tasks in the same order.
// A nil list equals an empty one.
func (l List) Equal(other List) bool {
	return slices.Equal(l, other)
}

// Clone returns a copy that does not share storage with l.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Index returns the position of the task with id, or -1.
func (l List) Index(id int64) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// GetTask returns a copy of the task with id and whether it was found.
func (l List) GetTask(id int64) (Task, bool) {
	i := l.Index(id)
	if i < 0 {
		return Task{}, false
	}
	return l[i], true
}

// MaxID returns the largest id in the list, or 0 for an empty list.
func (l List) MaxID() int64 {
	var highest int64
	for _, t := range l {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest
}

// AddTask appends a new incomplete task with the trimmed text.
// Text that trims to empty is rejected and l is returned unchanged.
func (l List) AddTask(rawText string, id int64) (List, bool) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return l, false
	}
	out := make(List, len(l), len(l)+1)
	copy(out, l)
	return append(out, Task{ID: id, Text: text}), true
}

// DeleteTask removes the task with id. Unknown ids are a no-op.
func (l List) DeleteTask(id int64) (List, bool) {
	i := l.Index(id)
	if i < 0 {
		return l, false
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...), true
}

// ToggleComplete flips the completed flag of the task with id.
func (l List) ToggleComplete(id int64) (List, bool) {
	return l.update(id, func(t *Task) {
		t.Completed = !t.Completed
	})
}

// EditTask replaces the text of the task with id by the trimmed rawText.
// Empty text keeps the original.
func (l List) EditTask(id int64, rawText string) (List, bool) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return l, false
	}
	i := l.Index(id)
	if i < 0 || l[i].Text == text {
		return l, false
	}
	return l.update(id, func(t *Task) {
		t.Text = text
	})
}

// ClearAll returns an empty list.
func (l List) ClearAll() (List, bool) {
	return List{}, len(l) > 0
}

// ClearCompleted removes every completed task.
func (l List) ClearCompleted() (List, bool) {
	out := make(List, 0, len(l))
	for _, t := range l {
		if !t.Completed {
			out = append(out, t)
		}
	}
	if len(out) == len(l) {
		return l, false
	}
	return out, true
}

func (l List) update(id int64, fn func(*Task)) (List, bool) {
	i := l.Index(id)
	if i < 0 {
		return l, false
	}
	out := l.Clone()
	fn(&out[i])
	return out, true
}

// Stats holds the derived counts shown next to the list.
type Stats struct {
	Total     int
	Completed int
	Remaining int
}

// Stats computes the derived counts.
func (l List) Stats() Stats {
	s := Stats{Total: len(l)}
	for _, t := range l {
		if t.Completed {
			s.Completed++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}

// Percent returns the completed share in [0, 100]; 0 for an empty list.
func (s Stats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}
