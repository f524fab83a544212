package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func projectsSchema() Schema {
	return Schema{
		{Name: "ID", Linked: true},
		{Name: "Name", Wrap: true},
	}
}

// bodyLines returns the table lines after the caption.
func bodyLines(t *testing.T, block string) []string {
	t.Helper()
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		t.Fatalf("block too short: %q", block)
	}
	return lines[1:]
}

func TestRender_EmptyRows(t *testing.T) {
	out, err := Render("Projects", projectsSchema(), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Projects") {
		t.Errorf("missing caption: %q", out)
	}

	lines := bodyLines(t, out)
	if len(lines) != 3 {
		t.Fatalf("expected top border, header, bottom border; got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "┌") || !strings.HasPrefix(lines[2], "└") {
		t.Errorf("header not bordered:\n%s", out)
	}
	if !strings.Contains(lines[1], "ID") || !strings.Contains(lines[1], "Name") {
		t.Errorf("header line = %q", lines[1])
	}
}

func TestRender_RowCount(t *testing.T) {
	rows := []Record{
		{Link("1", "https://gitlab.com/a"), Plain("alpha")},
		{Link("2", "https://gitlab.com/b"), Plain("beta")},
		{Link("3", "https://gitlab.com/c"), Plain("gamma")},
	}
	out, err := Render("Projects", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := bodyLines(t, out)
	// top + header + (separator + row) per record + bottom
	if want := 1 + 1 + 2*len(rows) + 1; len(lines) != want {
		t.Fatalf("lines = %d, want %d:\n%s", len(lines), want, out)
	}
	if n := strings.Count(out, "├"); n != len(rows) {
		t.Errorf("row separators = %d, want %d", n, len(rows))
	}
}

func TestRender_LinkedCells(t *testing.T) {
	rows := []Record{
		{Link("12", "https://gitlab.com/group/app"), Plain("app")},
		{Link("13", ""), Plain("no-url")},
	}
	out, err := Render("Projects", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "\x1b]8;;https://gitlab.com/group/app") {
		t.Errorf("missing OSC 8 link in output: %q", out)
	}
	if n := strings.Count(out, "\x1b]8;;"); n != 2 {
		t.Errorf("OSC 8 sequences = %d, want 2 (open and close of one link)", n)
	}
	if !strings.Contains(out, "│ 13 │") {
		t.Errorf("row without url should render plain label: %q", out)
	}
}

func TestRender_NoEscapesWithoutURLs(t *testing.T) {
	rows := []Record{{Link("1", ""), Plain("plain")}}
	out, err := Render("Projects", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(out, "\x1b") {
		t.Fatalf("unexpected escape sequence: %q", out)
	}
}

func TestRender_BoxIsRectangular(t *testing.T) {
	rows := []Record{
		{Link("7", "https://gitlab.com/a/b/-/merge_requests/7"), Plain("Implement OSC hyperlinks in table output")},
		{Link("8", "https://gitlab.com/a/b/-/merge_requests/8"), Plain("Small fix")},
	}
	out, err := Render("Merge Requests", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := bodyLines(t, out)
	want := ansi.StringWidth(lines[0])
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != want {
			t.Errorf("line %d width = %d, want %d: %q", i, w, want, ansi.Strip(line))
		}
	}
}

func TestRender_ControlCharactersStayAligned(t *testing.T) {
	rows := []Record{
		{Link("1", "https://gitlab.com/a/b/-/merge_requests/1"), Plain("a\tb with tab")},
		{Link("2", ""), Plain("title from a CRLF file\r\n")},
		{Link("3", ""), Plain("done\r")},
	}
	out, err := Render("Merge Requests", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.ContainsAny(out, "\t\r") {
		t.Fatalf("rendered block still contains tab or carriage return: %q", out)
	}

	lines := bodyLines(t, out)
	want := ansi.StringWidth(lines[0])
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != want {
			t.Errorf("line %d width = %d, want %d: %q", i, w, want, ansi.Strip(line))
		}
	}
}

func TestRender_VerticalCentering(t *testing.T) {
	rows := []Record{{Link("7", "https://gitlab.com/x"), Plain("Implement OSC hyperlinks in table output")}}
	out, err := Render("Merge Requests", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	plain := ansi.Strip(out)
	var idLine, middleLine int = -1, -1
	for i, line := range strings.Split(plain, "\n") {
		if strings.Contains(line, " 7 ") {
			idLine = i
		}
		if strings.Contains(line, "hyperlinks in") {
			middleLine = i
		}
	}
	if idLine < 0 || idLine != middleLine {
		t.Fatalf("id on line %d, middle wrapped line on %d:\n%s", idLine, middleLine, plain)
	}
}

func TestRender_SingleColumnUnwrapped(t *testing.T) {
	value := strings.Repeat("lorem ", 33) + "ip"
	if len(value) != 200 {
		t.Fatalf("fixture length = %d", len(value))
	}
	schema := Schema{{Name: "Description", Wrap: true}}

	out, err := Render("Notes", schema, []Record{{Plain(value)}}, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, value) {
		t.Fatalf("value should appear unbroken:\n%s", out)
	}
	if lines := bodyLines(t, out); len(lines) != 5 {
		t.Errorf("lines = %d, want 5", len(lines))
	}
}

func TestRender_Deterministic(t *testing.T) {
	rows := []Record{
		{Link("1", "https://gitlab.com/a"), Plain("first project with a long name")},
		{Link("2", ""), Plain("second")},
	}
	first, err := Render("Projects", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := Render("Projects", projectsSchema(), rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if first != second {
		t.Fatalf("renders differ:\n%q\n%q", first, second)
	}
}

func TestRender_SchemaMismatch(t *testing.T) {
	rows := []Record{{Plain("1"), Plain("ok")}, {Plain("2")}}
	_, err := Render("Projects", projectsSchema(), rows, DefaultOptions())

	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
	if mismatch.Row != 1 {
		t.Errorf("Row = %d, want 1", mismatch.Row)
	}
}

func TestRender_InvalidSchema(t *testing.T) {
	if _, err := Render("Empty", nil, nil, DefaultOptions()); err == nil {
		t.Fatal("expected error for empty schema")
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	rows := []Record{{Link("1", "https://gitlab.com/a"), Plain("alpha")}}
	if err := Fprint(&buf, "Projects", projectsSchema(), rows); err != nil {
		t.Fatalf("Fprint() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Projects\n┌") {
		t.Errorf("unexpected prefix: %q", out)
	}
	if !strings.HasSuffix(out, "┘\n") {
		t.Errorf("expected trailing newline after bottom border: %q", out)
	}
}

func TestFprint_WritesNothingOnError(t *testing.T) {
	var buf bytes.Buffer
	err := Fprint(&buf, "Projects", projectsSchema(), []Record{{Plain("only one")}})
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %q on error", buf.String())
	}
}
