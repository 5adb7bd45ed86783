package fasta

import (
	"io"

	"github.com/grailbio/seqload/encoding/seq"
)

// DefaultLineWidth is the number of bases per line written by Writer.
const DefaultLineWidth = 80

// Writer writes records in FASTA format.
type Writer struct {
	w         io.Writer
	lineWidth int
	err       error
}

// NewWriter creates a Writer that wraps sequences at lineWidth bases. If
// lineWidth <= 0, each sequence is written on a single line.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	return &Writer{w: w, lineWidth: lineWidth}
}

// WriteRecord writes rec's name and sequence. Quality data and alignment
// information are dropped.
func (w *Writer) WriteRecord(rec *seq.Record) error {
	w.writeString(">", rec.Name, "\n")
	s := rec.Seq
	if w.lineWidth > 0 {
		for len(s) > w.lineWidth {
			w.writeString(s[:w.lineWidth], "\n")
			s = s[w.lineWidth:]
		}
	}
	if len(s) > 0 {
		w.writeString(s, "\n")
	}
	return w.err
}

func (w *Writer) writeString(strs ...string) {
	for _, s := range strs {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, s)
	}
}
