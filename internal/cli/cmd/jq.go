package cmd

import (
	"encoding/json"

	"github.com/itchyny/gojq"
)

// compileJqFilter parses and compiles a jq filter expression.
func compileJqFilter(filter string) (*gojq.Code, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, err
	}
	return gojq.Compile(query)
}

// matchesJqFilter evaluates a compiled jq filter against JSON data.
// A nil code matches everything. Boolean results are taken as-is; any
// other non-nil, non-error result counts as a match (select-style
// filters).
func matchesJqFilter(code *gojq.Code, data json.RawMessage) bool {
	if code == nil {
		return true
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return false
	}

	iter := code.Run(value)
	v, ok := iter.Next()
	if !ok {
		return false
	}
	if _, isErr := v.(error); isErr {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return v != nil
}
