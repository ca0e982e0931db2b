// Package todo holds the task list data model and its persisted form.
//
// A list is stored as a compact JSON array, one object per task, in list
// order:
//
//	[
//	  {"id": 1718000000000, "text": "buy milk", "completed": false},
//	  {"id": 1718000000001, "text": "call mom", "completed": true}
//	]
//
// An empty list has no stored form at all; callers remove the storage key
// instead of writing "[]".
//
// # Operations
//
// List operations never modify the receiver. Each returns the resulting
// list and whether anything changed, so callers can skip persisting no-op
// commands:
//
//   - AddTask trims the text and rejects empty input
//   - DeleteTask and ToggleComplete match by id and ignore unknown ids
//   - EditTask trims the text and keeps the old text when the new one is empty
//   - ClearAll and ClearCompleted drop all or completed tasks
//
// # Validation
//
// Decode checks a stored payload in two passes:
//
//  1. JSON Schema (draft 2020-12) for shape: required fields, types, and
//     text containing a non-space character. Unknown properties are
//     accepted and dropped on the next write.
//  2. Semantic checks the schema cannot express: unique ids and text that
//     is non-empty after trimming Unicode whitespace.
package todo
