package seqprovider

import (
	"context"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqload/encoding/fasta"
	"github.com/grailbio/seqload/encoding/fastq"
	"github.com/grailbio/seqload/encoding/samtext"
	"github.com/grailbio/seqload/encoding/seq"
	"v.io/x/lib/vlog"
)

// Opts defines options for NewProvider and Load.
type Opts struct {
	// KeepQuality causes FASTQ quality strings to be stored in
	// seq.Record.Qual. Other formats ignore it.
	KeepQuality bool

	// Format, if nonempty, is matched against the suffix table instead of the
	// path, e.g., ".sam". Use it for inputs without a usable suffix, such as
	// stdin. ParseFileType converts a format name to a Format value.
	Format string

	// Warnf receives decoder diagnostics. Defaults to log.Printf.
	Warnf func(format string, args ...interface{})
}

// FileType represents the format of a sequence file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// FASTA file
	FASTA
	// FASTQ file
	FASTQ
	// SAM text file
	SAM
)

var fileTypeNames = [...]string{"unknown", "fasta", "fastq", "sam"}

func (t FileType) String() string { return fileTypeNames[t] }

// suffixes lists the recognized suffixes of each type, in the order they are
// checked.
var suffixes = []struct {
	fileType FileType
	suffixes []string
}{
	{FASTA, []string{".fasta", ".fa", ".fna"}},
	{FASTQ, []string{".fastq", ".fq", ".ca"}},
	{SAM, []string{".sam"}},
}

// Suffix returns the canonical suffix for the file type, e.g. ".sam". It
// returns "" for Unknown.
func (t FileType) Suffix() string {
	for _, s := range suffixes {
		if s.fileType == t {
			return s.suffixes[0]
		}
	}
	return ""
}

// ParseFileType parses the file type name. "sam" returns SAM, for example.
// A leading dot is accepted. On error, it returns Unknown.
func ParseFileType(name string) FileType {
	switch strings.TrimPrefix(name, ".") {
	case "fasta":
		return FASTA
	case "fastq":
		return FASTQ
	case "sam":
		return SAM
	default:
		return Unknown
	}
}

// GuessFileType returns the file type from the suffix of the given
// detection path. Returns Unknown if no suffix matches.
func GuessFileType(path string) FileType {
	for _, s := range suffixes {
		for _, suffix := range s.suffixes {
			if strings.HasSuffix(path, suffix) {
				return s.fileType
			}
		}
	}
	vlog.VI(1).Infof("%v: could not detect file type.", path)
	return Unknown
}

// acceptedSuffixes describes the suffix table for error messages.
func acceptedSuffixes() string {
	groups := make([]string, len(suffixes))
	for i, s := range suffixes {
		groups[i] = strings.Join(s.suffixes, "/")
	}
	return "not " + strings.Join(groups, " or ")
}

func mergeOpts(optList []Opts) Opts {
	opts := Opts{}
	for _, o := range optList {
		if o.KeepQuality {
			opts.KeepQuality = true
		}
		if o.Format != "" {
			opts.Format = o.Format
		}
		if o.Warnf != nil {
			opts.Warnf = o.Warnf
		}
	}
	if opts.Warnf == nil {
		opts.Warnf = log.Printf
	}
	return opts
}

// NewProviderFromSource creates the decoder for src. The decoder takes
// ownership of src; on error src is closed.
func NewProviderFromSource(src *Source, optList ...Opts) (seq.Provider, error) {
	opts := mergeOpts(optList)
	name := src.DetectionPath
	if opts.Format != "" {
		name = opts.Format
	}
	switch GuessFileType(name) {
	case FASTA:
		return fasta.NewProvider(src, src.DisplayPath), nil
	case FASTQ:
		return fastq.NewProvider(src, src.DisplayPath, opts.KeepQuality), nil
	case SAM:
		return samtext.NewReader(src, src.DisplayPath, samtext.Opts{Warnf: opts.Warnf}), nil
	}
	if err := src.Close(); err != nil {
		log.Error.Printf("%s: close: %v", src.DisplayPath, err)
	}
	e := &seq.Error{Kind: seq.UnsupportedFormat, Path: src.DetectionPath, Msg: acceptedSuffixes()}
	if opts.Format != "" {
		e.Msg = "format override " + opts.Format + ", " + e.Msg
	}
	return nil, e
}

// NewProvider opens path and creates a Provider for it. The file type is
// detected from the path, unless Opts.Format is set.
//
// It fails with a seq.NotFound error if the path cannot be opened and with a
// seq.UnsupportedFormat error if no decoder matches.
func NewProvider(ctx context.Context, path string, optList ...Opts) (seq.Provider, error) {
	src, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewProviderFromSource(src, optList...)
}

// LoadSAM is NewProvider with the SAM decoder forced, whatever the path.
func LoadSAM(ctx context.Context, path string, optList ...Opts) (seq.Provider, error) {
	return NewProvider(ctx, path, append(optList, Opts{Format: SAM.Suffix()})...)
}

// Load creates one Provider that yields the records of paths[0], then those
// of paths[1], and so on.
//
// All the files are opened before Load returns, so a missing or unsupported
// path fails Load before any record is read. On error, the providers already
// created are closed.
func Load(ctx context.Context, paths []string, optList ...Opts) (seq.Provider, error) {
	providers := make([]seq.Provider, 0, len(paths))
	for _, path := range paths {
		p, err := NewProvider(ctx, path, optList...)
		if err != nil {
			for _, q := range providers {
				if e := q.Close(); e != nil {
					log.Error.Printf("close: %v", e)
				}
			}
			return nil, err
		}
		providers = append(providers, p)
	}
	return seq.NewMultiProvider(providers), nil
}
