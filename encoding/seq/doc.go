// Package seq defines the record type shared by the FASTA, FASTQ and SAM
// decoders, and the Provider interface they all implement.
//
// A Provider is pulled one record at a time:
//
//   for {
//     rec, err := p.Next()
//     if err == io.EOF {
//       break
//     }
//     if err != nil {
//       return err
//     }
//     ...
//   }
//
// NewMultiProvider concatenates several providers into one stream.
package seq
