package fasta

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqload/encoding/seq"
)

// Provider yields the sequences of a FASTA stream as seq.Records. It
// implements seq.Provider. Thread compatible.
type Provider struct {
	path   string
	in     io.ReadCloser
	sc     *Scanner
	done   bool
	closed bool
}

// NewProvider creates a Provider reading FASTA data from in. Path is the
// display name stored in each record. The provider takes ownership of in.
func NewProvider(in io.ReadCloser, path string) *Provider {
	return &Provider{path: path, in: in, sc: NewScanner(in)}
}

// Next implements seq.Provider.
func (p *Provider) Next() (*seq.Record, error) {
	if p.done {
		return nil, io.EOF
	}
	if !p.sc.Scan() {
		p.stop()
		err := p.sc.Err()
		if err == nil {
			return nil, io.EOF
		}
		if p.sc.BadLine() != "" {
			return nil, &seq.Error{Kind: seq.MalformedRecord, Path: p.path, Line: p.sc.BadLine(), Err: err}
		}
		return nil, err
	}
	return &seq.Record{Name: p.sc.Name(), Path: p.path, Seq: p.sc.Seq()}, nil
}

// Reordered implements seq.Provider.
func (p *Provider) Reordered() bool { return false }

// Close implements seq.Provider.
func (p *Provider) Close() error {
	p.done = true
	if p.closed {
		return nil
	}
	p.closed = true
	return p.in.Close()
}

func (p *Provider) String() string { return p.path }

func (p *Provider) stop() {
	if err := p.Close(); err != nil {
		log.Error.Printf("%s: close: %v", p.path, err)
	}
}
