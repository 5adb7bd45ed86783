package cmd

import (
	"bufio"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/seqload/encoding/fasta"
	"github.com/grailbio/seqload/encoding/fastq"
	"github.com/grailbio/seqload/encoding/seq"
	"github.com/grailbio/seqload/encoding/seqprovider"
)

type recordWriter interface {
	WriteRecord(rec *seq.Record) error
}

// cat copies every record of p to out, as FASTA or FASTQ. It closes p.
func cat(p seq.Provider, out io.Writer, outType seqprovider.FileType, lineWidth int) error {
	bw := bufio.NewWriter(out)
	var w recordWriter
	if outType == seqprovider.FASTQ {
		w = fastq.NewWriter(bw)
	} else {
		w = fasta.NewWriter(bw, lineWidth)
	}
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
		if err := w.WriteRecord(rec); err != nil {
			once.Set(err)
			break
		}
	}
	once.Set(bw.Flush())
	once.Set(p.Close())
	return once.Err()
}
