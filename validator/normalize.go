package validator

import (
	"fmt"
	"sort"
	"strings"
)

// FieldPath maps a logical expectation key to a nested path inside the
// actual execution output. The table is data, not code: adding a mapping
// requires no change to the validation logic.
type FieldPath struct {
	Key  string
	Path []string
}

// DefaultFieldPaths covers the workload conventions the sample suites use:
// handlers report their HTTP result under an apiResult envelope.
var DefaultFieldPaths = []FieldPath{
	{Key: "statusCode", Path: []string{"apiResult", "StatusCode"}},
	{Key: "body", Path: []string{"apiResult", "Payload", "body"}},
}

// lookupPath returns the table entry for a logical key, if any.
func lookupPath(table []FieldPath, key string) ([]string, bool) {
	for _, fp := range table {
		if fp.Key == key {
			return fp.Path, true
		}
	}
	return nil, false
}

// Project computes the normalized projection of the actual output restricted
// to the keys present in the expected block. Keys with a table mapping are
// resolved through their nested path; keys without one are read directly
// from the top level. Unresolvable paths are returned as diagnostics. The
// projection is a pure function of its inputs, so it is idempotent.
func Project(actual, expected map[string]any, table []FieldPath) (map[string]any, []string) {
	projection := make(map[string]any, len(expected))
	var unresolved []string

	for _, key := range sortedKeys(expected) {
		path, mapped := lookupPath(table, key)
		if !mapped {
			path = []string{key}
		}
		value, err := walk(actual, path)
		if err != nil {
			unresolved = append(unresolved, fmt.Sprintf("cannot resolve path %q for key %q: %v", strings.Join(path, "."), key, err))
			continue
		}
		projection[key] = value
	}
	return projection, unresolved
}

// walk descends through nested JSON objects following path segments.
func walk(node any, path []string) (any, error) {
	current := node
	for i, segment := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q is not an object", strings.Join(path[:i], "."))
		}
		next, ok := obj[segment]
		if !ok {
			return nil, fmt.Errorf("missing field %q", segment)
		}
		current = next
	}
	return current, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
