package seq

// Provider yields records one at a time. Thread compatible: a Provider must
// have a single consumer.
type Provider interface {
	// Next returns the next record. It returns io.EOF once the stream is
	// exhausted. After Next returns io.EOF or any other error, every later
	// call returns io.EOF; a past error is never returned twice.
	Next() (*Record, error)

	// Reordered returns true if records may be yielded in an order different
	// from the order they appear in the input.
	Reordered() bool

	// Close releases the underlying stream. It may be called at any time,
	// including after Next has returned io.EOF, and more than once.
	Close() error
}
