// Package seqprovider opens FASTA, FASTQ and SAM files and returns them as
// seq.Providers, so that callers never branch on the file format.
//
// Open resolves a path to a Source: "-" reads standard input, and a ".gz"
// suffix is decompressed transparently. NewProvider picks the decoder from
// the path suffix (after removing ".gz"), or from Opts.Format when set. Load
// concatenates several paths into one stream.
package seqprovider
