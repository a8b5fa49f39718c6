// Package csvgen encodes report rows as CSV incrementally, so a download
// response can be written row by row instead of materializing the whole file.
package csvgen

import (
	"io"
	"iter"
	"strings"
)

// Writer emits RFC 4180 lines with every field quoted. Always quoting keeps
// the output stable for spreadsheet imports regardless of cell content.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteRow(row []string) error {
	var b strings.Builder
	for i, field := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")

	_, err := io.WriteString(w.w, b.String())
	return err
}

type flusher interface {
	Flush()
}

// Stream writes each row as it is produced, flushing w after every row when
// it supports flushing. gin's ResponseWriter does, which gives lazy
// incremental output to the client.
func Stream(w io.Writer, rows iter.Seq[[]string]) error {
	cw := NewWriter(w)
	f, canFlush := w.(flusher)

	for row := range rows {
		if err := cw.WriteRow(row); err != nil {
			return err
		}
		if canFlush {
			f.Flush()
		}
	}
	return nil
}

// Rows adapts a fully materialized row slice to the iterator Stream expects.
func Rows(rows [][]string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}
