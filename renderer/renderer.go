// Package renderer formats reports as markdown, for the terminal and for
// static site content.
package renderer

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/assets"
)

// ReportMarkdown renders every sub-report of r that succeeded. Failed ones
// are listed with their error.
func ReportMarkdown(r *assets.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio on %s\n\n", r.AsOf)
	if r.Summary.OK() {
		fmt.Fprintln(&b, SummaryMarkdown(r.Summary.Value))
	}
	if r.Holdings.OK() {
		fmt.Fprintln(&b, HoldingsMarkdown(r.Holdings.Value))
	}
	if r.Dividends.OK() {
		fmt.Fprintln(&b, DividendsMarkdown(r.Dividends.Value))
	}
	if r.Activity.OK() {
		fmt.Fprintln(&b, ActivityMarkdown(r.Activity.Value))
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "## Not computed")
		fmt.Fprintln(w)
		for _, err := range r.Errors() {
			fmt.Fprintf(w, "- %v\n", err)
		}
		return len(r.Errors()) > 0
	})
	return b.String()
}

// FrontMatter is the data available to the front matter template.
type FrontMatter struct {
	Report string // summary, holdings...
	Month  string // 2006-01
	AsOf   string
}

// Artifacts returns a markdown file per successful sub-report of r, to be
// published next to the data files. When fm is not nil, it is executed and
// prepended to each file.
func Artifacts(fm *template.Template) func(*assets.Report) []assets.Artifact {
	return func(r *assets.Report) []assets.Artifact {
		var out []assets.Artifact
		add := func(name string, ok bool, render func() string) {
			if !ok {
				return
			}
			md := render()
			out = append(out, assets.Artifact{Name: name + ".md", Write: func(w io.Writer) error {
				if fm != nil {
					data := FrontMatter{Report: name, Month: r.Month().Identifier(), AsOf: r.AsOf.String()}
					if err := fm.Execute(w, data); err != nil {
						return fmt.Errorf("front matter of %s: %w", name, err)
					}
					fmt.Fprintln(w)
				}
				_, err := io.WriteString(w, md)
				return err
			}})
		}
		add("summary", r.Summary.OK(), func() string { return SummaryMarkdown(r.Summary.Value) })
		add("holdings", r.Holdings.OK(), func() string { return HoldingsMarkdown(r.Holdings.Value) })
		add("dividends", r.Dividends.OK(), func() string { return DividendsMarkdown(r.Dividends.Value) })
		add("activity", r.Activity.OK(), func() string { return ActivityMarkdown(r.Activity.Value) })
		add("prices", r.Prices.OK(), func() string { return PricesMarkdown(r.Prices.Value) })
		return out
	}
}

// Terminal renders md for a terminal of the given width.
func Terminal(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
