package cmd

import (
	"encoding/binary"
	"encoding/json"
	"hash"
	"io"
	"sort"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/seqload/encoding/seq"
)

// unalignedContig is the contig name used for records without an alignment.
const unalignedContig = "*"

// contigChecksum is the checksum of the records of one contig. Every sum is
// commutative, so the checksum does not depend on record order.
type contigChecksum struct {
	// Name is the contig name, or "*" for records without alignment.
	Name string
	// NRecs is the # of records.
	NRecs int64
	// SumPos is the sum of all position values.
	SumPos uint64
	// SumFlags is the sum of hashes of the reverse and expects-mate bits.
	SumFlags uint64
	// SumName is the sum of hashes of all names.
	SumName uint64
	// SumSeq is the sum of hashes of all sequences.
	SumSeq uint64
	// SumQual is the sum of hashes of all quality strings.
	SumQual uint64
	// SumCigar is the sum of hashes of all cigar strings.
	SumCigar uint64
}

func hashField(h hash.Hash64, pos [8]byte, value []byte) uint64 {
	h.Reset()
	h.Write(pos[:]) // nolint: errcheck
	h.Write(value)  // nolint: errcheck
	return h.Sum64()
}

func (c *contigChecksum) add(r *seq.Record, h hash.Hash64) {
	c.NRecs++
	pos := [8]byte{}
	if a := r.Alignment; a != nil {
		c.SumPos += uint64(a.Pos)
		binary.LittleEndian.PutUint64(pos[:], uint64(a.Pos))
		var bits [1]byte
		if a.Reverse {
			bits[0] |= 1
		}
		if a.ExpectsMate {
			bits[0] |= 2
		}
		c.SumFlags += hashField(h, pos, bits[:])
		c.SumCigar += hashField(h, pos, unsafe.StringToBytes(a.Cigar))
	}
	c.SumName += hashField(h, pos, unsafe.StringToBytes(r.Name))
	c.SumSeq += hashField(h, pos, unsafe.StringToBytes(r.Seq))
	if r.HasQual() {
		c.SumQual += hashField(h, pos, unsafe.StringToBytes(r.Qual))
	}
}

// fileChecksum is the checksum of a record stream.
type fileChecksum struct {
	Contigs []contigChecksum // Sorted by name.
}

// checksum reads all the records of p and closes it.
func checksum(p seq.Provider) (*fileChecksum, error) {
	byContig := map[string]*contigChecksum{}
	h := seahash.New()
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
		name := unalignedContig
		if rec.Alignment != nil {
			name = rec.Alignment.Contig
		}
		c := byContig[name]
		if c == nil {
			c = &contigChecksum{Name: name}
			byContig[name] = c
		}
		c.add(rec, h)
	}
	once.Set(p.Close())
	csum := &fileChecksum{}
	for _, c := range byContig {
		csum.Contigs = append(csum.Contigs, *c)
	}
	sort.Slice(csum.Contigs, func(i, j int) bool { return csum.Contigs[i].Name < csum.Contigs[j].Name })
	return csum, once.Err()
}

func (csum *fileChecksum) write(out io.Writer) error {
	data, err := json.MarshalIndent(csum, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}
