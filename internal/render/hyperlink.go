package render

import (
	"strings"

	"github.com/muesli/termenv"
)

// FormatLink wraps label in an OSC 8 hyperlink pointing at url.
// Terminals without OSC 8 support show the label with inert escape bytes.
// An empty url returns label unchanged. The url is not validated.
func FormatLink(label, url string) string {
	if url == "" {
		return label
	}
	return termenv.Hyperlink(url, label)
}

// Cell returns the rendered text for a field. Control characters in the
// label are cleaned first: they have no display width of their own, so a
// terminal expanding a tab or honoring a carriage return would push the
// right border out of line.
func Cell(f Field) string {
	label := cleanText(f.label)
	if f.IsLink() {
		return FormatLink(label, f.url)
	}
	return label
}

// cleanText turns tabs into spaces, CRLF into LF, and drops every other
// control character except newline.
func cleanText(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case isControl(r):
			return -1
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	return (r < 0x20 && r != '\n') || r == 0x7f
}
