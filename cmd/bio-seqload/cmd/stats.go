package cmd

import (
	"io"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/seqload/encoding/seq"
)

type seqStats struct {
	total       int64
	aligned     int64
	reverse     int64
	expectsMate int64
	withQual    int64
	bases       int64
	// names holds fingerprints of the read names seen so far. Paired reads
	// share a name, so len(names) counts templates.
	names map[uint64]struct{}
}

func (s *seqStats) record(r *seq.Record) {
	s.total++
	s.bases += int64(len(r.Seq))
	if r.HasQual() {
		s.withQual++
	}
	if a := r.Alignment; a != nil {
		s.aligned++
		if a.Reverse {
			s.reverse++
		}
		if a.ExpectsMate {
			s.expectsMate++
		}
	}
	s.names[farm.Fingerprint64(unsafe.StringToBytes(r.Name))] = struct{}{}
}

// stats reads all the records of p and closes it.
func stats(p seq.Provider) (*seqStats, error) {
	s := &seqStats{names: map[uint64]struct{}{}}
	once := errors.Once{}
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			once.Set(err)
			break
		}
		s.record(rec)
		if s.total%(1024*1024) == 0 {
			log.Printf("%dMi records", s.total/(1024*1024))
		}
	}
	once.Set(p.Close())
	return s, once.Err()
}

// write prints the stats as two-column TSV.
func (s *seqStats) write(out io.Writer) error {
	w := tsv.NewWriter(out)
	rows := []struct {
		name  string
		value int64
	}{
		{"records", s.total},
		{"distinct_names", int64(len(s.names))},
		{"bases", s.bases},
		{"with_quality", s.withQual},
		{"aligned", s.aligned},
		{"reverse", s.reverse},
		{"expects_mate", s.expectsMate},
	}
	for _, row := range rows {
		w.WriteString(row.name)
		w.WriteInt64(row.value)
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}
