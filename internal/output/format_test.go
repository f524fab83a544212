package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/render"
)

type testProject struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	WebURL string `json:"web_url,omitempty"`
}

func (testProject) Schema() render.Schema {
	return render.Schema{
		{Name: "ID", Linked: true},
		{Name: "Name", Wrap: true},
	}
}

func (p testProject) Record() render.Record {
	return render.Record{
		render.Link(strconv.Itoa(p.ID), p.WebURL),
		render.Plain(p.Name),
	}
}

var testProjects = []testProject{
	{ID: 1, Name: "app", WebURL: "https://gitlab.example.com/group/app"},
	{ID: 2, Name: "docs"},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"TEXT", FormatText, false},
		{"  text  ", FormatText, false},
		{"", FormatText, false},
		{"json", FormatJSON, false},
		{"ndjson", FormatNDJSON, false},
		{"jsonl", FormatNDJSON, false},
		{"JSONL", FormatNDJSON, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrintList_Text(t *testing.T) {
	for _, format := range []Format{FormatText, FormatTable} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := PrintList(context.Background(), NewPrinter(&buf, format), "Projects", testProjects); err != nil {
				t.Fatalf("PrintList() error = %v", err)
			}

			out := buf.String()
			if !strings.HasPrefix(out, "Projects\n") {
				t.Errorf("expected caption first, got %q", out)
			}
			if !strings.HasSuffix(out, "\n") {
				t.Error("expected trailing newline")
			}
			plain := ansi.Strip(out)
			for _, want := range []string{"ID", "Name", "app", "docs"} {
				if !strings.Contains(plain, want) {
					t.Errorf("output missing %q:\n%s", want, plain)
				}
			}
			if !strings.Contains(out, "\x1b]8;;https://gitlab.example.com/group/app") {
				t.Error("expected hyperlink for project with web_url")
			}
		})
	}
}

func TestPrintList_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintList[testProject](context.Background(), NewPrinter(&buf, FormatText), "Projects", nil); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	// caption, top rule, header, bottom rule
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines for empty table, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Projects" {
		t.Errorf("caption = %q", lines[0])
	}
}

func TestPrintList_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintList(context.Background(), NewPrinter(&buf, FormatJSON), "Projects", testProjects); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}

	var got []testProject
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[0].Name != "app" {
		t.Errorf("decoded = %+v", got)
	}
	if strings.Contains(buf.String(), "\x1b") {
		t.Error("JSON output should not contain escape sequences")
	}
}

func TestPrintList_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintList[testProject](context.Background(), NewPrinter(&buf, FormatJSON), "Projects", nil); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestPrintList_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintList(context.Background(), NewPrinter(&buf, FormatNDJSON), "Projects", testProjects); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[1] != `{"id":2,"name":"docs"}` {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestPrintList_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintList(context.Background(), NewPrinter(&buf, FormatYAML), "Projects", testProjects); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}

	var got []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 items, got %d", len(got))
	}
}

func TestPrintList_QueryInText(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), ".[].name")
	if err := PrintList(ctx, NewPrinter(&buf, FormatText), "Projects", testProjects); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}
	if got := buf.String(); got != "app\ndocs\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPrintList_QueryInJSON(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), ".[] | select(.id == 2) | .name")
	if err := PrintList(ctx, NewPrinter(&buf, FormatJSON), "Projects", testProjects); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}
	if got := buf.String(); got != "\"docs\"\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPrintList_JSONPath(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithJSONPath(context.Background(), "[0].web_url")
	if err := PrintList(ctx, NewPrinter(&buf, FormatJSON), "Projects", testProjects); err != nil {
		t.Fatalf("PrintList() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `"https://gitlab.example.com/group/app"` {
		t.Errorf("output = %q", got)
	}
}

func TestPrintList_TableRejectsFilters(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), ".[0]")
	err := PrintList(ctx, NewPrinter(&buf, FormatTable), "Projects", testProjects)
	if !clierrors.IsUserError(err) {
		t.Fatalf("expected user error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestPrintList_FailEmpty(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithFailEmpty(context.Background(), true)
	err := PrintList(ctx, NewPrinter(&buf, FormatJSON), "Projects", []testProject{})
	if !clierrors.IsUserError(err) {
		t.Fatalf("expected user error, got %v", err)
	}

	if err := PrintList(ctx, NewPrinter(&buf, FormatJSON), "Projects", testProjects); err != nil {
		t.Fatalf("non-empty list should print, got %v", err)
	}
}

func TestPrint_TextStruct(t *testing.T) {
	type info struct {
		Client  string `json:"client"`
		Server  string `json:"server,omitempty"`
		URL     string `json:"url"`
		private string
	}

	var buf bytes.Buffer
	err := NewPrinter(&buf, FormatText).Print(context.Background(), info{Client: "1.0.0", URL: "https://gitlab.com", private: "x"})
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := buf.String(); got != "client: 1.0.0\nurl: https://gitlab.com\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPrint_TextMap(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]interface{}{"b": 2, "a": []int{1, 2}, "c": nil}
	if err := NewPrinter(&buf, FormatText).Print(context.Background(), data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := buf.String(); got != "a: [1,2]\nb: 2\nc: <nil>\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPrint_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON).Print(context.Background(), nil); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestPrint_InvalidQuery(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), ".invalid[")
	err := NewPrinter(&buf, FormatJSON).Print(ctx, map[string]string{"key": "value"})
	if err == nil || !strings.Contains(err.Error(), "invalid --query") {
		t.Fatalf("expected invalid query error, got %v", err)
	}
}

func TestPrint_IncompleteQueryHint(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), `map({key`)
	err := NewPrinter(&buf, FormatJSON).Print(ctx, []int{1})
	if err == nil || !strings.Contains(err.Error(), "query looks incomplete") {
		t.Fatalf("expected incomplete-query hint, got %v", err)
	}
}

func TestPrint_InvalidJSONPath(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithJSONPath(context.Background(), "$[")
	err := NewPrinter(&buf, FormatJSON).Print(ctx, []int{1})
	if !clierrors.IsUserError(err) {
		t.Fatalf("expected user error, got %v", err)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantChanged bool
	}{
		{"escaped bang", `.[] | select(.state \!= "merged")`, `.[] | select(.state != "merged")`, true},
		{"inside string", `test("\\!=")`, `test("\\!=")`, false},
		{"clean", `.[] | select(.state != "merged")`, `.[] | select(.state != "merged")`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := NormalizeQuery(tt.in)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("NormalizeQuery(%q) = (%q, %v), want (%q, %v)", tt.in, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestNormalizeJSONPath(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"$.name":    "$.name",
		".name":     "$.name",
		"[0].name":  "$[0].name",
		"name":      "$.name",
		"@.web_url": "@.web_url",
	}
	for in, want := range tests {
		if got := normalizeJSONPath(in); got != want {
			t.Errorf("normalizeJSONPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	if FormatFromContext(ctx) != FormatText {
		t.Error("default format should be text")
	}
	if QueryFromContext(ctx) != "" || JSONPathFromContext(ctx) != "" {
		t.Error("default query and jsonpath should be empty")
	}
	if QuietFromContext(ctx) || FailEmptyFromContext(ctx) {
		t.Error("default flags should be false")
	}

	ctx = WithQuiet(WithFormat(ctx, FormatYAML), true)
	if FormatFromContext(ctx) != FormatYAML || !QuietFromContext(ctx) {
		t.Error("context values not stored")
	}
}
