package samtext_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/grailbio/seqload/encoding/samtext"
	"github.com/grailbio/seqload/encoding/seq"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingCloser struct {
	io.Reader
	closed int
}

func (c *trackingCloser) Close() error {
	c.closed++
	return nil
}

type logRecorder struct {
	lines []string
}

func (l *logRecorder) warnf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func newReader(data string) (*samtext.Reader, *logRecorder, *trackingCloser) {
	l := &logRecorder{}
	in := &trackingCloser{Reader: strings.NewReader(data)}
	return samtext.NewReader(in, "test.sam", samtext.Opts{Warnf: l.warnf}), l, in
}

func readAll(t *testing.T, r *samtext.Reader) ([]*seq.Record, error) {
	var out []*seq.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func samLine(name string, flags int, contig string, pos int, cigar, mate, text string) string {
	return strings.Join([]string{
		name, fmt.Sprint(flags), contig, fmt.Sprint(pos), "60", cigar, mate, "0", "0", text, "*",
	}, "\t") + "\n"
}

const header = "@HD\tVN:1.6\tSO:coordinate\n@SQ\tSN:chr1\tLN:1000\n"

func TestBasicAlignment(t *testing.T) {
	r, l, in := newReader(header + samLine("r1", 0, "chr1", 100, "4M", "*", "ACGT"))
	recs, err := readAll(t, r)
	require.NoError(t, err)
	require.Equal(t, 1, len(recs))
	assert.Equal(t, &seq.Record{
		Name: "r1",
		Path: "test.sam",
		Seq:  "ACGT",
		Alignment: &seq.Alignment{
			Contig: "chr1",
			Pos:    100,
			Cigar:  "4M",
		},
	}, recs[0])
	assert.Empty(t, l.lines)
	assert.Equal(t, 1, in.closed)
	assert.False(t, r.Reordered())
	assert.Equal(t, "test.sam", r.String())
}

func TestFlagDecoding(t *testing.T) {
	tests := []struct {
		flags       int
		mate        string
		reverse     bool
		expectsMate bool
	}{
		{0, "*", false, false},
		{0x10, "*", true, false},
		{0x1, "=", false, true},
		{0x1 | 0x8, "=", false, false},
		{0x1 | 0x10 | 0x20, "chr2", true, true},
		{0x8, "*", false, false},
	}
	for _, test := range tests {
		r, _, _ := newReader(samLine("r", test.flags, "chr1", 1, "4M", test.mate, "ACGT"))
		rec, err := r.Next()
		require.NoError(t, err, "%+v", test)
		expect.EQ(t, rec.Alignment.Reverse, test.reverse, "%+v", test)
		expect.EQ(t, rec.Alignment.ExpectsMate, test.expectsMate, "%+v", test)
	}
}

func TestSupplementarySkipped(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		data := header
		for i := 0; i < n; i++ {
			data += samLine(fmt.Sprintf("s%d", i), 0x800, "chr1", 10, "4M", "*", "ACGT")
		}
		r, l, _ := newReader(data)
		recs, err := readAll(t, r)
		require.NoError(t, err)
		assert.Empty(t, recs)
		assert.Equal(t, n, r.Warnings().SupplementarySkipped)
		assert.Equal(t, 0, r.Warnings().MissingSeqSkipped)
		// One diagnostic for the first line, one summary.
		require.Equal(t, 2, len(l.lines), "%v", l.lines)
		assert.Contains(t, l.lines[0], strings.TrimSuffix(samLine("s0", 0x800, "chr1", 10, "4M", "*", "ACGT"), "\n"))
		assert.Equal(t, fmt.Sprintf("%d warnings reading test.sam", n), l.lines[1])
	}
}

func TestSupplementaryNeedsOnlyTwoColumns(t *testing.T) {
	r, _, _ := newReader("s1\t2048\n")
	recs, err := readAll(t, r)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 1, r.Warnings().SupplementarySkipped)
}

func TestUnalignedSilentlySkipped(t *testing.T) {
	r, l, _ := newReader(samLine("u1", 4, "*", 0, "*", "*", "ACGT") +
		samLine("u2", 4, "*", 0, "*", "*", "*"))
	recs, err := readAll(t, r)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, samtext.Warnings{}, r.Warnings())
	assert.Empty(t, l.lines)
}

func TestContigTruncatedAtSpace(t *testing.T) {
	r, _, _ := newReader(samLine("r1", 0, "chr1 extra text", 5, "4M", "*", "ACGT"))
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "chr1", rec.Alignment.Contig)
}

func TestCigarIsOpaque(t *testing.T) {
	r, _, _ := newReader(samLine("r1", 0, "chr1", 5, "not-a-cigar", "*", "ACGT"))
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "not-a-cigar", rec.Alignment.Cigar)
}

func TestMissingSeqEndToEnd(t *testing.T) {
	r, l, _ := newReader(header +
		samLine("r1", 0, "chr1", 100, "4M", "*", "ACGT") +
		samLine("r2", 0, "chr1", 200, "4M", "*", "*"))
	recs, err := readAll(t, r)
	require.NoError(t, err)
	require.Equal(t, 1, len(recs))
	assert.Equal(t, "r1", recs[0].Name)
	assert.Equal(t, 1, r.Warnings().MissingSeqSkipped)
	require.Equal(t, 2, len(l.lines))
	assert.Contains(t, l.lines[0], "query text '*'")
	assert.Equal(t, "1 warnings reading test.sam", l.lines[1])
}

func TestWarningCategoriesIndependent(t *testing.T) {
	r, l, _ := newReader(
		samLine("a", 0x800, "chr1", 1, "4M", "*", "ACGT") +
			samLine("b", 0, "chr1", 1, "4M", "*", "*") +
			samLine("c", 0x800, "chr1", 1, "4M", "*", "ACGT") +
			samLine("d", 0, "chr1", 1, "4M", "*", "*") +
			samLine("e", 0, "chr1", 1, "4M", "*", "ACGT"))
	recs, err := readAll(t, r)
	require.NoError(t, err)
	require.Equal(t, 1, len(recs))
	assert.Equal(t, samtext.Warnings{SupplementarySkipped: 2, MissingSeqSkipped: 2}, r.Warnings())
	require.Equal(t, 3, len(l.lines), "%v", l.lines)
	assert.Equal(t, "4 warnings reading test.sam", l.lines[2])
}

func TestCommentLinesAnywhere(t *testing.T) {
	r, _, _ := newReader(samLine("r1", 0, "chr1", 1, "4M", "*", "AC") +
		"@CO\tmid-stream comment\n" +
		samLine("r2", 0, "chr1", 2, "4M", "*", "GT"))
	recs, err := readAll(t, r)
	require.NoError(t, err)
	require.Equal(t, 2, len(recs))
	assert.Equal(t, "r2", recs[1].Name)
}

func TestMalformed(t *testing.T) {
	eightCols := "r1\t0\tchr1\t100\t60\t4M\t*\t0"
	tests := []string{
		eightCols,
		"r1\tzero\tchr1\t100\t60\t4M\t*\t0\t0\tACGT",
		"r1\t0\tchr1\tpos\t60\t4M\t*\t0\t0\tACGT",
		"r1\t0\tchr1\t0\t60\t4M\t*\t0\t0\tACGT",
		"r1\t0\tchr1\t3000000000\t60\t4M\t*\t0\t0\tACGT",
		"r1\t4294967296\tchr1\t100\t60\t4M\t*\t0\t0\tACGT",
		"\t0\tchr1\t100\t60\t4M\t*\t0\t0\tACGT",
		"r1\t0\tchr1\t100\t60\t4M\t*\t0\t0\t",
		"r1",
	}
	for _, line := range tests {
		r, l, in := newReader(header + samLine("ok", 0, "chr1", 1, "4M", "*", "ACGT") + line + "\n" +
			samLine("never", 0, "chr1", 1, "4M", "*", "ACGT"))
		recs, err := readAll(t, r)
		require.Error(t, err, line)
		assert.Equal(t, 1, len(recs))
		assert.True(t, seq.IsKind(err, seq.MalformedRecord), "%v", err)
		assert.Contains(t, err.Error(), line)
		e := seq.AsError(err)
		require.NotNil(t, e)
		assert.Equal(t, line, e.Line)
		assert.Equal(t, "test.sam", e.Path)
		assert.Nil(t, e.Err)
		assert.Equal(t, 1, in.closed)
		assert.Empty(t, l.lines)

		// The error is not repeated, and the rest of the stream is gone.
		_, err = r.Next()
		assert.Equal(t, io.EOF, err)
	}
}

// failingReader returns its data, then err in place of io.EOF.
type failingReader struct {
	r   io.Reader
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		err = f.err
	}
	return n, err
}

func TestReadErrorPassedThrough(t *testing.T) {
	errRead := errors.New("read failed")
	l := &logRecorder{}
	in := &trackingCloser{Reader: &failingReader{
		r: strings.NewReader(header +
			samLine("r1", 0, "chr1", 1, "4M", "*", "ACGT") +
			samLine("r2", 0x800, "chr1", 1, "4M", "*", "ACGT") +
			"r3\t0\tchr"),
		err: errRead,
	}}
	r := samtext.NewReader(in, "test.sam", samtext.Opts{Warnf: l.warnf})

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.Name)

	_, err = r.Next()
	assert.True(t, err == errRead, "%v", err)
	assert.Equal(t, seq.Other, seq.KindOf(err))
	assert.Equal(t, 1, in.closed)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
	// Only the supplementary diagnostic; no summary after a failed read.
	assert.Equal(t, 1, len(l.lines))
	assert.Equal(t, 1, r.Warnings().SupplementarySkipped)
}

func TestEndOfStreamIsIdempotent(t *testing.T) {
	r, l, in := newReader(samLine("r1", 0x800, "chr1", 1, "4M", "*", "ACGT"))
	for i := 0; i < 3; i++ {
		_, err := r.Next()
		assert.Equal(t, io.EOF, err)
	}
	// The summary is printed once even though Next kept being called.
	assert.Equal(t, 2, len(l.lines))
	assert.NoError(t, r.Close())
	assert.Equal(t, 1, in.closed)
}

func TestCloseBeforeEnd(t *testing.T) {
	r, l, in := newReader(samLine("r1", 0, "chr1", 1, "4M", "*", "ACGT") +
		samLine("r2", 0x800, "chr1", 1, "4M", "*", "ACGT"))
	_, err := r.Next()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 1, in.closed)
	assert.Empty(t, l.lines)
}

func TestCRLF(t *testing.T) {
	r, _, _ := newReader(strings.Replace(samLine("r1", 0, "chr1", 1, "2M", "*", "AC"), "\n", "\r\n", 1))
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "AC", rec.Seq)
}
