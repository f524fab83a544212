package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/render"
)

// Format represents the output format type.
type Format string

const (
	// FormatText renders lists as boxed tables and values as key-value pairs (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatNDJSON is newline-delimited JSON format.
	FormatNDJSON Format = "ndjson"
	// FormatTable renders lists as boxed tables.
	FormatTable Format = "table"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON, "jsonl":
		return FormatNDJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|table|json|ndjson|jsonl|yaml)")
	}
}

// Printer handles output formatting across different formats.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{
		w:      w,
		format: format,
	}
}

// Format returns the printer's output format.
func (p *Printer) Format() Format {
	return p.format
}

// PrintList writes items under caption. Text and table output draw a boxed
// table from each item's schema and record; the structured formats encode
// the items themselves, after --jsonpath and --query.
func PrintList[T render.Recorder](ctx context.Context, p *Printer, caption string, items []T) error {
	if items == nil {
		items = []T{}
	}
	if FailEmptyFromContext(ctx) && len(items) == 0 {
		return clierrors.NewUserError("no results", "Remove --fail-empty to allow empty output")
	}

	filtered := QueryFromContext(ctx) != "" || strings.TrimSpace(JSONPathFromContext(ctx)) != ""
	switch {
	case p.format == FormatTable && filtered:
		return clierrors.NewUserError(
			"--query/--jsonpath are not supported with table output",
			"Use --output json|ndjson|jsonl|yaml|text instead",
		)
	case (p.format == FormatText || p.format == FormatTable) && !filtered:
		schema, rows := render.Collect(items)
		return render.Fprint(p.w, caption, schema, rows)
	}

	return p.Print(ctx, items)
}

// Print outputs a single value, or a list without table rendering.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	if raw := strings.TrimSpace(JSONPathFromContext(ctx)); raw != "" {
		extracted, err := applyJSONPath(data, raw)
		if err != nil {
			return err
		}
		data = extracted
	}

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data)
	case FormatNDJSON:
		return p.printNDJSON(ctx, data)
	case FormatYAML:
		return p.printYAML(ctx, data)
	case FormatText, FormatTable:
		return p.printText(ctx, data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// printYAML outputs data as YAML, filtered by --query when set.
func (p *Printer) printYAML(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		results, err := runQuery(query, data)
		if err != nil {
			return err
		}
		data = unwrapSingle(results)
	}

	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// printText outputs data as human-readable text. Structs and maps print one
// "key: value" line per field; slices print one line per element; anything
// nested is shown as compact JSON.
func (p *Printer) printText(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		results, err := runQuery(query, data)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		data = unwrapSingle(results)
	}

	v := derefValue(reflect.ValueOf(data))
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Struct:
		return p.printTextStruct(v)
	case reflect.Map:
		return p.printTextMap(v)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if _, err := fmt.Fprintln(p.w, formatValue(v.Index(i))); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(p.w, formatValue(v))
		return err
	}
}

func (p *Printer) printTextStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty := fieldJSONName(field)
		if name == "-" {
			continue
		}
		value := v.Field(i)
		if omitEmpty && value.IsZero() {
			continue
		}
		if _, err := fmt.Fprintf(p.w, "%s: %s\n", name, formatValue(value)); err != nil {
			return err
		}
	}
	return nil
}

// printTextMap outputs a map as key-value pairs sorted by key.
func (p *Printer) printTextMap(v reflect.Value) error {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", keys[i]) < fmt.Sprintf("%v", keys[j])
	})

	for _, key := range keys {
		if _, err := fmt.Fprintf(p.w, "%v: %s\n", key, formatValue(v.MapIndex(key))); err != nil {
			return err
		}
	}
	return nil
}

func unwrapSingle(results []interface{}) interface{} {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

func derefValue(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// fieldJSONName returns the JSON name of a struct field and whether it is
// tagged omitempty.
func fieldJSONName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, strings.Contains(opts, "omitempty")
}

// formatValue renders scalars with %v and composite values as compact JSON.
func formatValue(v reflect.Value) string {
	v = derefValue(v)
	if !v.IsValid() {
		return "<nil>"
	}

	switch v.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Sprintf("%v", v.Interface())
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
