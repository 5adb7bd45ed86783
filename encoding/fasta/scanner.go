package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const maxLineSize = 1024 * 1024 * 300 // 300 MB

// ErrNoHeader is returned when sequence data appears before the first '>'
// line.
var ErrNoHeader = errors.New("sequence data before the first '>' line")

// Scanner reads a FASTA stream one sequence at a time, without holding more
// than one sequence in memory. Thread compatible.
type Scanner struct {
	b   *bufio.Scanner
	err error
	eof bool

	// header is the '>' line of the sequence that the next Scan returns.
	header string
	name   string
	seq    strings.Builder
	// badLine is the line that caused err.
	badLine string
}

// NewScanner creates a Scanner that reads FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineSize)
	return &Scanner{b: b}
}

// Scan advances to the next sequence. Once Scan returns false it never
// returns true again; Err tells whether the stream ended cleanly.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.eof {
		return false
	}
	s.seq.Reset()
	if s.header == "" {
		// First call: skip blank lines up to the first header.
		for {
			if !s.b.Scan() {
				s.eof = true
				s.err = s.b.Err()
				return false
			}
			line := s.b.Text()
			if len(line) == 0 {
				continue
			}
			if line[0] != '>' {
				s.badLine = line
				s.err = ErrNoHeader
				return false
			}
			s.header = line
			break
		}
	}
	s.name = headerName(s.header)
	if s.name == "" {
		s.badLine = s.header
		s.err = errors.Errorf("empty sequence name")
		return false
	}
	for {
		if !s.b.Scan() {
			if s.err = s.b.Err(); s.err == nil {
				s.eof = true
			}
			s.header = ""
			return s.err == nil
		}
		line := s.b.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start of the next sequence.
			s.header = line
			return true
		}
		s.seq.WriteString(line)
	}
}

// headerName extracts the sequence name from a '>' line. The name is the
// text up to the first space: '>chr1 A viral sequence' becomes 'chr1'.
func headerName(header string) string {
	return strings.Split(header[1:], " ")[0]
}

// Name returns the name of the current sequence.
func (s *Scanner) Name() string { return s.name }

// Seq returns the current sequence, with newlines removed.
func (s *Scanner) Seq() string { return s.seq.String() }

// Err returns the error that stopped the scanner, or nil if the stream ended
// cleanly.
func (s *Scanner) Err() error { return s.err }

// BadLine returns the raw line that caused a format error.
func (s *Scanner) BadLine() string { return s.badLine }
