// bio-seqload reads FASTA, FASTQ and SAM files through the seqprovider
// package. It can convert them, count them, and checksum them.
//
//   bio-seqload cat -out=fastq reads1.fq.gz reads2.fq
//   samtools view -h x.bam | bio-seqload stats -format=sam -
//   bio-seqload checksum aln.sam
package main

import "github.com/grailbio/seqload/cmd/bio-seqload/cmd"

func main() {
	cmd.Run()
}
