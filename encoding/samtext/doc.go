// Package samtext decodes SAM text files into seq.Records.
//
// The reader keeps only the records of interest: supplementary alignments,
// unaligned reads (RNAME "*") and alignments without query text (SEQ "*") are
// dropped. Supplementary and no-SEQ lines are counted as warnings. A
// diagnostic is logged the first time each kind of warning occurs, and a
// single summary line with the total is logged at the end of the stream.
//
// Lines starting with '@' are ignored wherever they appear.
package samtext
