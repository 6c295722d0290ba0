package jobrec

import (
	"bufio"
	"io"
	"strings"
)

// Writer renders records as tab-delimited rows, header first.
type Writer struct {
	w           *bufio.Writer
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column header. Write calls it on first use.
func (w *Writer) WriteHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	return w.writeLine(columns)
}

func (w *Writer) Write(r JobRecord) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	return w.writeLine(r.Values())
}

// WriteAll writes the header and every record, then flushes. An empty slice still produces the
// header.
func (w *Writer) WriteAll(records []JobRecord) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) writeLine(values []string) error {
	if _, err := w.w.WriteString(strings.Join(values, "\t")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}
