// Package app owns the task list for one process: it hydrates the list from
// durable storage, applies user commands, and mirrors every change back.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "todos"

// Option configures a TodoStore.
type Option func(*TodoStore)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(s *TodoStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *TodoStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the id generator. The generator is still raised
// above the hydrated list's largest id.
func WithIDGenerator(g *todo.IDGenerator) Option {
	return func(s *TodoStore) {
		if g != nil {
			s.ids = g
		}
	}
}

// TodoStore is the application state container.
//
// It is not safe for concurrent use; every command runs to completion on
// the caller's goroutine.
type TodoStore struct {
	ctx     context.Context
	store   kv.Store
	key     string
	logger  *log.Logger
	ids     *todo.IDGenerator
	list    todo.List
	edit    EditSession
	persist error
	// stale is set while storage holds a payload that failed to decode.
	stale bool
}

// New creates a TodoStore and hydrates it from store. Hydration problems
// are logged and leave the list empty; they never fail construction.
func New(ctx context.Context, store kv.Store, opts ...Option) *TodoStore {
	s := &TodoStore{
		ctx:    ctx,
		store:  store,
		key:    DefaultKey,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.list = s.hydrate()
	if s.ids == nil {
		s.ids = todo.NewIDGenerator(0)
	}
	s.ids.Observe(s.list.MaxID())
	return s
}

// Key returns the storage key.
func (s *TodoStore) Key() string {
	return s.key
}

func (s *TodoStore) hydrate() todo.List {
	payload, ok, err := s.store.Get(s.ctx, s.key)
	if err != nil {
		s.logger.Error("load todo list", "key", s.key, "err", err)
		return todo.List{}
	}
	if !ok {
		return todo.List{}
	}
	list, err := todo.Decode(payload)
	if err != nil {
		s.logger.Error("parse stored todo list", "key", s.key, "err", err)
		s.stale = true
		return todo.List{}
	}
	s.logger.Debug("hydrated todo list", "key", s.key, "tasks", list.Len())
	return list
}

// Persist mirrors the list to storage: a non-empty list is written under
// the key, an empty one removes the key. Failures are logged and recorded
// for LastPersistError; the in-memory list stays authoritative.
func (s *TodoStore) Persist() {
	s.persist = s.write()
	if s.persist != nil {
		s.logger.Error("persist todo list", "key", s.key, "tasks", s.list.Len(), "err", s.persist)
		return
	}
	s.stale = false
}

func (s *TodoStore) write() error {
	if s.list.Len() == 0 {
		if err := s.store.Remove(s.ctx, s.key); err != nil {
			return fmt.Errorf("remove %s: %w", s.key, err)
		}
		return nil
	}
	payload, err := todo.Encode(s.list)
	if err != nil {
		return err
	}
	if err := s.store.Set(s.ctx, s.key, payload); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

// LastPersistError returns the error of the most recent persist attempt,
// or nil if it succeeded or none was made.
func (s *TodoStore) LastPersistError() error {
	return s.persist
}

// mutate applies op and, if it changed the list, persists exactly once.
func (s *TodoStore) mutate(op func(todo.List) (todo.List, bool)) bool {
	next, changed := op(s.list)
	if !changed {
		return false
	}
	s.list = next
	if s.edit.Active && s.list.Index(s.edit.TaskID) < 0 {
		s.edit = EditSession{}
	}
	s.Persist()
	return true
}

// Tasks returns a copy of the list.
func (s *TodoStore) Tasks() todo.List {
	return s.list.Clone()
}

// Task returns the task with id.
func (s *TodoStore) Task(id int64) (todo.Task, bool) {
	return s.list.GetTask(id)
}

// Stats returns the derived counts.
func (s *TodoStore) Stats() todo.Stats {
	return s.list.Stats()
}

// AddTask appends a task with the trimmed text. Blank text is ignored.
// It returns the new task and whether one was added.
func (s *TodoStore) AddTask(text string) (todo.Task, bool) {
	if strings.TrimSpace(text) == "" {
		return todo.Task{}, false
	}
	var added todo.Task
	ok := s.mutate(func(l todo.List) (todo.List, bool) {
		next, ok := l.AddTask(text, s.ids.Next())
		if ok {
			added = next[next.Len()-1]
		}
		return next, ok
	})
	return added, ok
}

// DeleteTask removes the task with id.
func (s *TodoStore) DeleteTask(id int64) bool {
	return s.mutate(func(l todo.List) (todo.List, bool) {
		return l.DeleteTask(id)
	})
}

// ToggleComplete flips the completed flag of the task with id.
func (s *TodoStore) ToggleComplete(id int64) bool {
	return s.mutate(func(l todo.List) (todo.List, bool) {
		return l.ToggleComplete(id)
	})
}

// ClearAll removes every task. When the stored payload could not be
// decoded it is removed too, even though the in-memory list is already
// empty.
func (s *TodoStore) ClearAll() bool {
	if s.mutate(func(l todo.List) (todo.List, bool) {
		return l.ClearAll()
	}) {
		return true
	}
	if !s.stale {
		return false
	}
	s.Persist()
	return true
}

// ClearCompleted removes every completed task.
func (s *TodoStore) ClearCompleted() bool {
	return s.mutate(func(l todo.List) (todo.List, bool) {
		return l.ClearCompleted()
	})
}
