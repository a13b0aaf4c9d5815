package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/assets"
	"github.com/google/subcommands"
)

type convertCmd struct {
	output string
}

func (*convertCmd) Name() string { return "convert" }
func (*convertCmd) Synopsis() string {
	return "convert the trading records table of a markdown file to CSV"
}
func (*convertCmd) Usage() string {
	return `fa convert [-o <file.csv>] <file.md>

  Reads the last table of a markdown file, front matter ignored, and writes
  it as CSV: to stdout, or atomically to the -o file.

Usage Examples:
$ fa convert -o config/trading_records.csv content/trading_records.md
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output CSV file, stdout by default")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one markdown file expected")
		return subcommands.ExitUsageError
	}
	if err := convert(f.Arg(0), c.output, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// convert writes the last table of the markdown file src as CSV into dst, or
// to stdout when dst is empty.
func convert(src, dst string, stdout io.Writer) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if dst == "" {
		return assets.MarkdownToCSV(in, stdout)
	}
	return assets.WriteFileAtomic(dst, func(w io.Writer) error {
		return assets.MarkdownToCSV(in, w)
	})
}
