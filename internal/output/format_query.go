package output

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeQuery removes shell-escaped "\!" outside string literals, as
// typed by shells with history expansion enabled. The returned bool reports
// whether anything was rewritten.
func NormalizeQuery(query string) (string, bool) {
	if !strings.Contains(query, `\!`) {
		return query, false
	}

	var b strings.Builder
	b.Grow(len(query))

	inString, escaped, changed := false, false, false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '\\' && i+1 < len(query) && query[i+1] == '!':
			changed = true
			continue
		}
		b.WriteByte(ch)
	}

	if !changed {
		return query, false
	}
	return b.String(), true
}

// printJSON outputs data as pretty-printed JSON, filtered by --query when set.
func (p *Printer) printJSON(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		return p.writeQuery(query, data, true)
	}

	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printNDJSON outputs one JSON value per line: list items, or the results of
// --query.
func (p *Printer) printNDJSON(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		return p.writeQuery(query, data, false)
	}

	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if err := enc.Encode(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}

	return enc.Encode(data)
}

func (p *Printer) writeQuery(query string, data interface{}, pretty bool) error {
	results, err := runQuery(query, data)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	for _, v := range results {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// runQuery converts data to its JSON shape and returns every value the jq
// program emits.
func runQuery(query string, data interface{}) ([]interface{}, error) {
	query, _ = NormalizeQuery(query)

	normalized, err := normalizeToInterface(data)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, formatInvalidQueryErr(err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, formatInvalidQueryErr(err)
	}

	var results []interface{}
	iter := code.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("query error: %s", safeErrorMessage(queryErr))
		}
		results = append(results, v)
	}

	return results, nil
}

func formatInvalidQueryErr(err error) error {
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "unexpected eof") {
		return fmt.Errorf("invalid --query: %w\nHint: query looks incomplete; check the shell quoting", err)
	}
	return fmt.Errorf("invalid --query: %w", err)
}

// safeErrorMessage returns err.Error(), recovering from gojq runtime errors
// whose Error method panics on some typed values.
func safeErrorMessage(err error) (msg string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			msg = fmt.Sprintf("%v", recovered)
			// gojq panic payloads append the offending value in parentheses.
			if idx := strings.Index(msg, " ("); idx > 0 {
				msg = msg[:idx]
			}
		}
	}()

	msg = strings.TrimSpace(err.Error())
	if msg == "" {
		return fmt.Sprintf("%T", err)
	}
	return msg
}
