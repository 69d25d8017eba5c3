// Package jq filters JSON responses with jq expressions.
package jq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
)

// Filter is a compiled jq expression, safe for reuse across inputs.
type Filter struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles expression.
func Compile(expression string) (*Filter, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return &Filter{expr: expression, code: code}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Run applies the filter to a JSON document and collects every emitted value.
// The first runtime error stops the run.
func (f *Filter) Run(ctx context.Context, data []byte) ([]any, error) {
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}
	return f.RunValue(ctx, input)
}

// RunValue applies the filter to an already decoded value. Go structs must be
// converted to maps first; use Run with marshalled JSON for those.
func (f *Filter) RunValue(ctx context.Context, input any) ([]any, error) {
	values := make([]any, 0)
	iter := f.code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			return values, fmt.Errorf("jq %s: %s", f.expr, formatError(err))
		}
		values = append(values, v)
	}
	return values, nil
}

// formatError adds hints for common runtime errors. gojq reports these as
// plain errors, so the hints are keyed on message text.
func formatError(err error) string {
	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this response)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	}
	return errStr + hint
}

// Write prints one value per line. Strings are written verbatim when raw is
// set, like jq -r; everything else is written as indented JSON.
func Write(w io.Writer, values []any, raw bool) error {
	for _, v := range values {
		if s, ok := v.(string); ok && raw {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding jq result: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}
