package fastq

import (
	"io"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqload/encoding/seq"
)

// Provider yields the reads of a FASTQ stream as seq.Records. It implements
// seq.Provider. Thread compatible.
type Provider struct {
	path   string
	in     io.ReadCloser
	sc     *Scanner
	read   Read
	done   bool
	closed bool
}

// NewProvider creates a Provider reading FASTQ data from in. Path is the
// display name stored in each record. If keepQual is false, the quality
// strings are validated for presence but dropped. The provider takes
// ownership of in.
func NewProvider(in io.ReadCloser, path string, keepQual bool) *Provider {
	fields := ID | Seq
	if keepQual {
		fields |= Qual
	}
	return &Provider{path: path, in: in, sc: NewScanner(in, fields)}
}

// Next implements seq.Provider.
func (p *Provider) Next() (*seq.Record, error) {
	if p.done {
		return nil, io.EOF
	}
	if !p.sc.Scan(&p.read) {
		p.stop()
		err := p.sc.Err()
		if err == nil {
			return nil, io.EOF
		}
		if err == ErrInvalid || err == ErrShort {
			return nil, &seq.Error{
				Kind: seq.MalformedRecord,
				Path: p.path,
				Line: strings.Join(p.sc.Lines(), "\n"),
				Err:  err,
			}
		}
		return nil, err
	}
	name := p.read.ID[1:]
	if name == "" {
		p.stop()
		return nil, seq.Malformed(p.path, p.read.ID)
	}
	return &seq.Record{
		Name: name,
		Path: p.path,
		Seq:  p.read.Seq,
		Qual: p.read.Qual,
	}, nil
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
