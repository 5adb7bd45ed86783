package fastq

import (
	"io"

	"github.com/grailbio/seqload/encoding/seq"
	"github.com/pkg/errors"
)

var newline = []byte{'\n'}

// Writer is a FASTQ file writer.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in FASTQ format.
// An error is returned if the write failed.
func (w *Writer) Write(r *Read) error {
	w.writeln(r.ID)
	w.writeln(r.Seq)
	w.writeln(r.Unk)
	w.writeln(r.Qual)
	return w.err
}

// WriteRecord writes rec as a four-line FASTQ entry. The record must carry
// quality data.
func (w *Writer) WriteRecord(rec *seq.Record) error {
	if !rec.HasQual() {
		return errors.Errorf("%s: record %s has no quality data", rec.Path, rec.Name)
	}
	return w.Write(&Read{ID: "@" + rec.Name, Seq: rec.Seq, Unk: "+", Qual: rec.Qual})
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
