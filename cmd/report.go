package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/assets"
	"github.com/etnz/assets/date"
	"github.com/etnz/assets/renderer"
	"github.com/google/subcommands"
)

// reportCmd displays one report on a given date in the terminal.
type reportCmd struct {
	name     string
	synopsis string

	date  string
	width int
	raw   bool
}

func newReportCmd(name, synopsis string) *reportCmd {
	return &reportCmd{name: name, synopsis: synopsis}
}

func (c *reportCmd) Name() string     { return c.name }
func (c *reportCmd) Synopsis() string { return c.synopsis }
func (c *reportCmd) Usage() string {
	return fmt.Sprintf(`fa %s [-d <date>] [-w <width>] [-raw]

  Replays the trading records up to the date (today by default) and
  displays the %s report. Nothing is published.
`, c.name, c.name)
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "As-of date of the report")
	f.IntVar(&c.width, "w", 120, "Terminal width")
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := setup()
	if err != nil {
		return setupFailed(os.Stderr, err)
	}
	return exitStatus(a.log, c.run(ctx, a, asOf, os.Stdout))
}

func (c *reportCmd) run(ctx context.Context, a *app, asOf date.Date, w io.Writer) error {
	l, err := a.ledger()
	if err != nil {
		return err
	}
	p, closeProvider, err := a.provider()
	if err != nil {
		return err
	}
	defer closeProvider()

	r, err := a.pipeline(p).Report(ctx, l, asOf)
	if err != nil {
		return err
	}
	md, err := section(r, c.name)
	if err != nil {
		return err
	}
	if !c.raw {
		if md, err = renderer.Terminal(md, c.width); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, md)
	return err
}

// section renders the report called name.
func section(r *assets.Report, name string) (string, error) {
	switch name {
	case "summary":
		if !r.Summary.OK() {
			return "", r.Summary.Err
		}
		return renderer.SummaryMarkdown(r.Summary.Value), nil
	case "holdings":
		if !r.Holdings.OK() {
			return "", r.Holdings.Err
		}
		return renderer.HoldingsMarkdown(r.Holdings.Value), nil
	case "dividends":
		if !r.Dividends.OK() {
			return "", r.Dividends.Err
		}
		return renderer.DividendsMarkdown(r.Dividends.Value), nil
	case "activity":
		if !r.Activity.OK() {
			return "", r.Activity.Err
		}
		return renderer.ActivityMarkdown(r.Activity.Value), nil
	default:
		return "", fmt.Errorf("unknown report %q", name)
	}
}
