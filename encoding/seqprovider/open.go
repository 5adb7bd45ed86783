package seqprovider

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/seqload/encoding/seq"
	"github.com/klauspost/compress/gzip"
	"v.io/x/lib/vlog"
)

const (
	// StdinPath is the path that stands for the process's standard input.
	StdinPath = "-"
	stdinName = "stdin"

	gzipSuffix = ".gz"
)

// Source is an opened input. It reads the (decompressed) contents of the
// file. Thread compatible.
type Source struct {
	// DisplayPath names the input in records and messages. It is the path
	// passed to Open, or "stdin".
	DisplayPath string
	// DetectionPath is the name used to detect the file format. It is
	// DisplayPath without the compression suffix.
	DetectionPath string

	r       io.Reader
	closers []func() error
	closed  bool
}

// Read implements io.Reader.
func (s *Source) Read(p []byte) (int, error) { return s.r.Read(p) }

// Close closes the decompressor, if any, then the file. It is safe to call
// more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err errors.Once
	for i := len(s.closers) - 1; i >= 0; i-- {
		err.Set(s.closers[i]())
	}
	return err.Err()
}

// Open opens path for reading. If path is StdinPath, the Source reads
// os.Stdin and is named "stdin". Otherwise the file is opened with
// grailbio/base/file, so any registered scheme (e.g., s3://) works. If the
// path ends in ".gz" the contents are gunzipped.
//
// Failure to open the file yields a seq.NotFound error. Errors reading the
// gzip header are returned unmodified.
func Open(ctx context.Context, path string) (*Source, error) {
	if path == StdinPath {
		return &Source{
			DisplayPath:   stdinName,
			DetectionPath: stdinName,
			r:             os.Stdin,
		}, nil
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, &seq.Error{Kind: seq.NotFound, Path: path, Err: err}
	}
	src := &Source{
		DisplayPath:   path,
		DetectionPath: path,
		r:             in.Reader(ctx),
		closers:       []func() error{func() error { return in.Close(ctx) }},
	}
	if strings.HasSuffix(path, gzipSuffix) {
		gz, err := gzip.NewReader(src.r)
		if err != nil {
			src.Close() // nolint: errcheck
			return nil, err
		}
		src.r = gz
		src.closers = append(src.closers, gz.Close)
		src.DetectionPath = strings.TrimSuffix(path, gzipSuffix)
		vlog.VI(1).Infof("%v: decompressing, detecting format from %v", path, src.DetectionPath)
	}
	return src, nil
}
