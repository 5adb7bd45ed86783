package samtext

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqload/encoding/seq"
	"github.com/pkg/errors"
)

const (
	maxLineSize = 1024 * 1024 * 300 // 300 MB

	// unset is the SAM placeholder for a missing RNAME, RNEXT or SEQ.
	unset = "*"
)

// Column indexes of the mandatory SAM fields used by the reader.
const (
	colName = iota
	colFlags
	colContig
	colPos
	colMapQ
	colCigar
	colMateContig
	colMatePos
	colTempLen
	colSeq
)

// Opts defines options for NewReader.
type Opts struct {
	// Warnf receives the diagnostics. Defaults to log.Printf.
	Warnf func(format string, args ...interface{})
}

// Warnings counts the lines skipped with a warning. The counters are owned
// by a single Reader and are never reset.
type Warnings struct {
	// SupplementarySkipped is the number of supplementary alignments dropped.
	SupplementarySkipped int
	// MissingSeqSkipped is the number of alignments dropped because their SEQ
	// field was "*".
	MissingSeqSkipped int
}

// Total returns the number of warnings across categories.
func (w Warnings) Total() int {
	return w.SupplementarySkipped + w.MissingSeqSkipped
}

// Reader reads a SAM text stream. It implements seq.Provider. Thread
// compatible.
type Reader struct {
	path  string
	in    io.ReadCloser
	sc    *bufio.Scanner
	warnf func(format string, args ...interface{})

	done     bool
	warnings Warnings
	closed   bool
}

// NewReader creates a Reader that decodes SAM lines from in. Path is the
// display name of the input; it is stored in each record and used in
// messages. The Reader takes ownership of in and closes it once the stream
// ends, fails, or Close is called.
func NewReader(in io.ReadCloser, path string, opts ...Opts) *Reader {
	r := &Reader{
		path:  path,
		in:    in,
		sc:    bufio.NewScanner(in),
		warnf: log.Printf,
	}
	for _, o := range opts {
		if o.Warnf != nil {
			r.warnf = o.Warnf
		}
	}
	r.sc.Buffer(nil, maxLineSize)
	return r
}

// Next implements seq.Provider.
func (r *Reader) Next() (*seq.Record, error) {
	if r.done {
		return nil, io.EOF
	}
	for {
		line, ok := r.nextLine()
		if !ok {
			if err := r.sc.Err(); err != nil {
				r.stop()
				return nil, err
			}
			r.finish()
			return nil, io.EOF
		}
		rec, err := r.parseLine(line)
		if err != nil {
			log.Debug.Printf("%s: %v", r.path, err)
			r.stop()
			return nil, seq.Malformed(r.path, line)
		}
		if rec != nil {
			return rec, nil
		}
	}
}

// nextLine returns the next line that is not a header or comment line.
func (r *Reader) nextLine() (string, bool) {
	for r.sc.Scan() {
		line := r.sc.Text()
		if strings.HasPrefix(line, "@") {
			continue
		}
		return line, true
	}
	return "", false
}

// Warnings returns the warning counters accumulated so far.
func (r *Reader) Warnings() Warnings { return r.warnings }

// Reordered implements seq.Provider. SAM records are yielded in file order.
func (r *Reader) Reordered() bool { return false }

// Close implements seq.Provider.
func (r *Reader) Close() error {
	r.done = true
	return r.closeInput()
}

func (r *Reader) String() string { return r.path }

// finish is called exactly once, when the input is exhausted.
func (r *Reader) finish() {
	r.stop()
	if n := r.warnings.Total(); n > 0 {
		r.warnf("%d warnings reading %s", n, r.path)
	}
}

// stop moves the reader to its terminal state and releases the input.
func (r *Reader) stop() {
	r.done = true
	if err := r.closeInput(); err != nil {
		log.Error.Printf("%s: close: %v", r.path, err)
	}
}

func (r *Reader) closeInput() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.in.Close()
}

// fields gives bounds-checked access to the tab-separated columns of a line.
type fields []string

func (f fields) get(i int) (string, error) {
	if i >= len(f) {
		return "", errors.Errorf("missing column %d, line has %d", i+1, len(f))
	}
	return f[i], nil
}

// getInt decodes a column as a signed 32-bit integer.
func (f fields) getInt(i int) (int, error) {
	s, err := f.get(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 32)
	return int(v), err
}

// parseLine decodes one alignment line. It returns (nil, nil) if the line is
// to be skipped. Columns are read lazily, in order, so a line that is skipped
// early need not carry all the mandatory columns.
func (r *Reader) parseLine(line string) (*seq.Record, error) {
	f := fields(strings.Split(line, "\t"))
	name, err := f.get(colName)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("empty read name")
	}
	v, err := f.getInt(colFlags)
	if err != nil {
		return nil, err
	}
	flags := sam.Flags(v)
	if flags&sam.Supplementary != 0 {
		if r.warnings.SupplementarySkipped == 0 {
			r.warnf("Warning: skipping supplemental alignments, including %s", line)
		}
		r.warnings.SupplementarySkipped++
		return nil, nil
	}

	contig, err := f.get(colContig)
	if err != nil {
		return nil, err
	}
	if contig == unset {
		// Unaligned read.
		return nil, nil
	}
	if i := strings.IndexByte(contig, ' '); i >= 0 {
		contig = contig[:i]
	}
	pos, err := f.getInt(colPos)
	if err != nil {
		return nil, err
	}
	if pos < 1 {
		return nil, errors.Errorf("invalid position %d", pos)
	}
	cigar, err := f.get(colCigar)
	if err != nil {
		return nil, err
	}
	mateContig, err := f.get(colMateContig)
	if err != nil {
		return nil, err
	}
	aln := &seq.Alignment{
		Contig:      contig,
		Pos:         pos,
		Cigar:       cigar,
		Reverse:     flags&sam.Reverse != 0,
		ExpectsMate: mateContig != unset && flags&sam.MateUnmapped == 0,
	}

	text, err := f.get(colSeq)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.New("empty SEQ column")
	}
	if text == unset {
		if r.warnings.MissingSeqSkipped == 0 {
			r.warnf("Warning: skipping alignments having query text '%s', including %s", text, line)
		}
		r.warnings.MissingSeqSkipped++
		return nil, nil
	}
	return &seq.Record{
		Name:      name,
		Path:      r.path,
		Seq:       text,
		Alignment: aln,
	}, nil
}
