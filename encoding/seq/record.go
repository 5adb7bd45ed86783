package seq

// Alignment describes where a record aligns against a reference. It is
// filled only by decoders of alignment formats (SAM).
type Alignment struct {
	// Contig is the name of the reference sequence, e.g., "chr1".
	Contig string
	// Pos is the 1-based leftmost alignment position.
	Pos int
	// Cigar is the CIGAR string, carried through unparsed.
	Cigar string
	// Reverse is true if the record is aligned to the reverse strand.
	Reverse bool
	// ExpectsMate is true iff the record names a mate contig and the mate is
	// not flagged as unmapped.
	ExpectsMate bool
}

// Record is one sequence read from a FASTA, FASTQ, or SAM file. Records are
// immutable once returned by a Provider.
type Record struct {
	// Name is the read or sequence name. Never empty.
	Name string
	// Path is the display path of the file the record was read from.
	Path string
	// Seq is the sequence text.
	Seq string
	// Qual is the quality string. Empty if the source has no quality data or
	// the caller asked not to keep it.
	Qual string
	// Alignment is nil unless the source is an alignment file.
	Alignment *Alignment
}

// HasQual returns true if the record carries quality data.
func (r *Record) HasQual() bool { return r.Qual != "" }
