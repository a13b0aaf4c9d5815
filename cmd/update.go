package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/etnz/assets"
	"github.com/etnz/assets/renderer"
	"github.com/google/subcommands"
)

type updateCmd struct {
	full           bool
	frontMatterTpl string
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "recompute and publish the monthly reports"
}
func (*updateCmd) Usage() string {
	return `fa update [-full] [-frontmatter <file>]

  Replays the trading records, fetches the quotes they need and publishes the
  reports of the latest month under the static directory, as
  <yyyy>/<yymm>_<report> and latest_<report>, then writes the build info.

  With -full, every month from the configured start is recomputed. A month
  that cannot be valued is skipped, the others are still published.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.full, "full", false, "Recompute every month since the start month, not only the latest")
	f.StringVar(&c.frontMatterTpl, "frontmatter", "", "Path to a Go template file for the markdown reports front matter")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	a, err := setup()
	if err != nil {
		return setupFailed(os.Stderr, err)
	}
	return exitStatus(a.log, c.run(ctx, a, os.Stdout))
}

func (c *updateCmd) run(ctx context.Context, a *app, w io.Writer) error {
	var frontMatter *template.Template
	if c.frontMatterTpl != "" {
		var err error
		frontMatter, err = template.ParseFiles(c.frontMatterTpl)
		if err != nil {
			return fmt.Errorf("failed to parse front matter template: %w", err)
		}
	}

	l, err := a.ledger()
	if err != nil {
		return err
	}
	p, closeProvider, err := a.provider()
	if err != nil {
		return err
	}
	defer closeProvider()

	pl := a.pipeline(p)
	pl.Artifacts = renderer.Artifacts(frontMatter)
	results, err := pl.Update(ctx, l, c.full)
	printResults(w, results)
	return err
}

// printResults writes one line per month.
func printResults(w io.Writer, results []assets.MonthResult) {
	for _, res := range results {
		status := "published"
		if res.Err != nil {
			status = "skipped: " + res.Err.Error()
		} else if errs := res.Report.Errors(); len(errs) > 0 {
			status = fmt.Sprintf("published, %d report(s) not computed", len(errs))
		}
		fmt.Fprintf(w, "%s %s\n", res.AsOf.Format("2006-01"), status)
	}
}
