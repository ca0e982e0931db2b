package app

import "github.com/nibzard/todo-go/internal/todo"

// EditSession is the edit state of a TodoStore. The zero value is Idle.
// At most one task is edited at a time.
type EditSession struct {
	Active bool
	TaskID int64
	Draft  string
}

// Editing returns the current edit session.
func (s *TodoStore) Editing() EditSession {
	return s.edit
}

// IsEditing reports whether the task with id is being edited.
func (s *TodoStore) IsEditing(id int64) bool {
	return s.edit.Active && s.edit.TaskID == id
}

// StartEdit opens an edit session for id with its current text as draft.
// A session already open on another task is first closed with SaveEdit.
// Unknown ids leave the state unchanged and return false.
func (s *TodoStore) StartEdit(id int64) bool {
	task, ok := s.list.GetTask(id)
	if !ok {
		return false
	}
	if s.edit.Active {
		if s.edit.TaskID == id {
			return true
		}
		s.SaveEdit()
	}
	s.edit = EditSession{Active: true, TaskID: id, Draft: task.Text}
	return true
}

// SetDraft replaces the draft text of the open session.
func (s *TodoStore) SetDraft(text string) {
	if s.edit.Active {
		s.edit.Draft = text
	}
}

// SaveEdit applies the draft to the edited task and ends the session.
// A blank draft is discarded and the original text kept. It reports
// whether the task text changed.
func (s *TodoStore) SaveEdit() bool {
	if !s.edit.Active {
		return false
	}
	session := s.edit
	s.edit = EditSession{}
	return s.mutate(func(l todo.List) (todo.List, bool) {
		return l.EditTask(session.TaskID, session.Draft)
	})
}

// CancelEdit ends the session without changing the task.
func (s *TodoStore) CancelEdit() {
	s.edit = EditSession{}
}

// EditTask edits id in one step: StartEdit, SetDraft, SaveEdit.
func (s *TodoStore) EditTask(id int64, text string) bool {
	if !s.StartEdit(id) {
		return false
	}
	s.SetDraft(text)
	return s.SaveEdit()
}
