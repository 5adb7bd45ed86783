package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/seqload/encoding/seq"
	"github.com/grailbio/seqload/encoding/seqprovider"
	"v.io/x/lib/cmdline"
)

const formatHelp = `Input format, one of "fasta", "fastq", "sam".
By default the format is detected from each path's suffix (after removing .gz).
Required when reading stdin ("-").`

// loadFlags are the input flags shared by all subcommands.
type loadFlags struct {
	format      *string
	keepQuality *bool
}

func addLoadFlags(cmd *cmdline.Command) loadFlags {
	return loadFlags{
		format:      cmd.Flags.String("format", "", formatHelp),
		keepQuality: cmd.Flags.Bool("keep-quality", false, "Keep FASTQ quality strings"),
	}
}

// opts converts the flags into seqprovider options.
func (f loadFlags) opts() (seqprovider.Opts, error) {
	opts := seqprovider.Opts{KeepQuality: *f.keepQuality}
	if *f.format != "" {
		t := seqprovider.ParseFileType(*f.format)
		if t == seqprovider.Unknown {
			return opts, errors.E(errors.Invalid, fmt.Sprintf("unknown format %q", *f.format))
		}
		opts.Format = t.Suffix()
	}
	return opts, nil
}

func load(ctx context.Context, f loadFlags, paths []string) (seq.Provider, error) {
	if len(paths) == 0 {
		return nil, errors.E(errors.Invalid, "at least one path (or - for stdin) is required")
	}
	opts, err := f.opts()
	if err != nil {
		return nil, err
	}
	return seqprovider.Load(ctx, paths, opts)
}

func newCmdCat() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "cat",
		Short:    "Print the records of the inputs as FASTA or FASTQ",
		ArgsName: "path...",
	}
	flags := addLoadFlags(cmd)
	out := cmd.Flags.String("out", "fasta", `Output format, "fasta" or "fastq". FASTQ output implies -keep-quality.`)
	lineWidth := cmd.Flags.Int("line-width", 0, "Bases per FASTA line. <= 0 writes each sequence on one line.")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		outType := seqprovider.ParseFileType(*out)
		if outType != seqprovider.FASTA && outType != seqprovider.FASTQ {
			return errors.E(errors.Invalid, fmt.Sprintf("-out must be fasta or fastq, not %q", *out))
		}
		if outType == seqprovider.FASTQ {
			*flags.keepQuality = true
		}
		p, err := load(context.Background(), flags, argv)
		if err != nil {
			return err
		}
		return cat(p, env.Stdout, outType, *lineWidth)
	})
	return cmd
}

func newCmdStats() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "stats",
		Short:    "Count the records of the inputs. Similar to 'samtools flagstat'.",
		ArgsName: "path...",
	}
	flags := addLoadFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		p, err := load(context.Background(), flags, argv)
		if err != nil {
			return err
		}
		s, err := stats(p)
		if err != nil {
			return err
		}
		return s.write(env.Stdout)
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a checksum of the inputs.
The checksum is a JSON string with per-contig, order-independent sums of record fields`,
		ArgsName: "path...",
	}
	flags := addLoadFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		p, err := load(context.Background(), flags, argv)
		if err != nil {
			return err
		}
		csum, err := checksum(p)
		if err != nil {
			return err
		}
		return csum.write(env.Stdout)
	})
	return cmd
}

// Run is the entry point of bio-seqload.
func Run() {
	cleanup := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(
		&cmdline.Command{
			Name:     "bio-seqload",
			Short:    "Tools for reading FASTA, FASTQ and SAM files as one record stream",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdCat(),
				newCmdStats(),
				newCmdChecksum(),
			},
		}, env, os.Args[1:])
	code := cmdline.ExitCode(err, env.Stderr)
	cleanup()
	os.Exit(code)
}
