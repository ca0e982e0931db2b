package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "todos.schema.json"

// Schema is the JSON Schema every stored payload must satisfy.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "todo list",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string", "minLength": 1, "pattern": "\\S"},
      "completed": {"type": "boolean"}
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path into the payload, e.g. "[2].text"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Encode serializes the list to its stored form.
func Encode(l List) (string, error) {
	if l == nil {
		l = List{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("marshal todo list: %w", err)
	}
	return string(data), nil
}

// Decode parses and validates a stored payload.
// Validation failures are reported as one or more *ValidationError values
// joined together.
func Decode(payload string) (List, error) {
	// Numbers stay json.Number so the schema can tell 1 from 1.5.
	var doc interface{}
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse todo list: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse todo list: trailing data after list")
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile todo schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, errors.Join(schemaErrors(err)...)
	}

	var l List
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		return nil, fmt.Errorf("decode todo list: %w", err)
	}
	if errs := validateList(l); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return l, nil
}

// validateList runs the checks the schema cannot express.
func validateList(l List) []error {
	var errs []error
	seen := make(map[int64]int, len(l))
	for i, t := range l {
		path := fmt.Sprintf("[%d]", i)
		if first, dup := seen[t.ID]; dup {
			errs = append(errs, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %d (first at [%d])", t.ID, first),
			})
		} else {
			seen[t.ID] = i
		}
		if strings.TrimSpace(t.Text) == "" {
			errs = append(errs, &ValidationError{
				Path: path + ".text",
				Err:  fmt.Errorf("text is blank"),
			})
		}
	}
	return errs
}

func schemaErrors(err error) []error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
