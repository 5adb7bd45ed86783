package seq

import (
	"io"
	"strings"

	"github.com/grailbio/base/errors"
)

// multiProvider concatenates a list of providers. cur indexes the provider
// currently being drained; providers before it have returned io.EOF.
type multiProvider struct {
	providers []Provider
	cur       int
	done      bool
}

// NewMultiProvider creates a Provider that yields all the records of
// providers[0], then all the records of providers[1], and so on. A child is
// never pulled again after it returns io.EOF, and the next child is not
// pulled before that.
//
// If a child returns an error other than io.EOF, the error is returned to the
// caller and the composite stream ends there.
//
// The returned provider owns the children: Close closes all of them.
func NewMultiProvider(providers []Provider) Provider {
	return &multiProvider{providers: providers}
}

// Next implements the Provider interface.
func (m *multiProvider) Next() (*Record, error) {
	for !m.done && m.cur < len(m.providers) {
		rec, err := m.providers[m.cur].Next()
		if err == io.EOF {
			m.cur++
			continue
		}
		if err != nil {
			m.done = true
			return nil, err
		}
		return rec, nil
	}
	m.done = true
	return nil, io.EOF
}

// Reordered implements the Provider interface.
func (m *multiProvider) Reordered() bool {
	for _, p := range m.providers {
		if p.Reordered() {
			return true
		}
	}
	return false
}

// Close implements the Provider interface.
func (m *multiProvider) Close() error {
	once := errors.Once{}
	for _, p := range m.providers {
		once.Set(p.Close())
	}
	m.done = true
	return once.Err()
}

func (m *multiProvider) String() string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		if s, ok := p.(interface{ String() string }); ok {
			names[i] = s.String()
		}
	}
	return strings.Join(names, ",")
}
