package seq

import "io"

// fakeProvider is only for unittests. It yields the given records, then
// optionally an error.
type fakeProvider struct {
	recs   []*Record
	err    error
	done   bool
	closed int
	pulls  int
}

// FakeProvider is a Provider backed by a slice. It is only for unittests.
type FakeProvider interface {
	Provider
	// Pulls returns the number of Next calls made so far.
	Pulls() int
	// Closed returns the number of Close calls made so far.
	Closed() int
}

// NewFakeProvider creates a provider that yields recs in order. If err is
// non-nil, it is returned after the last record instead of io.EOF.
func NewFakeProvider(recs []*Record, err error) FakeProvider {
	return &fakeProvider{recs: recs, err: err}
}

// Next implements the Provider interface.
func (p *fakeProvider) Next() (*Record, error) {
	p.pulls++
	if p.done {
		return nil, io.EOF
	}
	if len(p.recs) == 0 {
		p.done = true
		if p.err != nil {
			return nil, p.err
		}
		return nil, io.EOF
	}
	// Return a copy so that the code under test cannot alter the original
	// test input data.
	rec := *p.recs[0]
	p.recs = p.recs[1:]
	return &rec, nil
}

// Reordered implements the Provider interface.
func (p *fakeProvider) Reordered() bool { return false }

// Close implements the Provider interface.
func (p *fakeProvider) Close() error {
	p.closed++
	p.done = true
	return nil
}

func (p *fakeProvider) Pulls() int  { return p.pulls }
func (p *fakeProvider) Closed() int { return p.closed }
