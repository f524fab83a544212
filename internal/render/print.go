package render

import (
	"fmt"
	"io"
	"os"
)

// Print renders rows under caption and writes the block to stdout.
func Print[T Recorder](caption string, rows []T) error {
	schema, records := Collect(rows)
	return Fprint(os.Stdout, caption, schema, records)
}

// Fprint renders rows under caption and writes the block, followed by a
// newline, to w. Nothing is written when rendering fails.
func Fprint(w io.Writer, caption string, schema Schema, rows []Record) error {
	block, err := Render(caption, schema, rows, DefaultOptions())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, block)
	return err
}
