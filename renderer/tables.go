package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/assets"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the account summary.
func SummaryMarkdown(t assets.SummaryTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Accounts on %s", t.AsOf))
	if len(t.Rows) == 0 {
		doc.PlainText("No account holds anything.")
		return doc.String()
	}

	table := md.TableSet{
		Header:    []string{"Account", "Invested", "Valuation", "Profit", "Rate", "Weight", "Dividends"},
		Alignment: alignment(7),
	}
	line := func(s assets.AccountSummary) []string {
		label := s.Label
		if s.Estimated {
			label += " *"
		}
		return []string{label, s.Invested.String(), s.Valuation.String(), s.Profit.String(), percent(s.ProfitRate), share(s.Weight), money(s.Dividends)}
	}
	estimated := false
	for _, s := range t.Rows {
		table.Rows = append(table.Rows, line(s))
		estimated = estimated || s.Estimated
	}
	total := line(t.Total)
	total[0] = md.Bold(total[0])
	table.Rows = append(table.Rows, total)
	doc.Table(table)

	if estimated {
		doc.PlainText("\\* valuation estimated from contributions, no snapshot recorded yet.")
	}
	return doc.String()
}

// HoldingsMarkdown renders the holdings snapshot.
func HoldingsMarkdown(t assets.HoldingsTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Holdings on %s", t.AsOf))
	table := md.TableSet{
		Header:    []string{"Instrument", "Account", "Quantity", "Price", "Cost", "Valuation", "Profit", "Return", "Day", "Weight"},
		Alignment: alignment(10),
	}
	for _, h := range t.Rows {
		qty, price := h.Quantity.String(), h.Price.String()
		if h.Reported {
			qty, price = "", ""
		}
		table.Rows = append(table.Rows, []string{
			h.Label, h.Account, qty, price,
			h.Cost.String(), h.Valuation.String(), h.Profit.String(),
			percent(h.Return), percent(h.DayChange), share(h.Weight),
		})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold("Total"), "", "", "",
		t.Total.Cost.String(), t.Total.Valuation.String(), t.Total.Profit.String(),
		percent(t.Total.Return), "", share(t.Total.Weight),
	})
	doc.Table(table)
	return doc.String()
}

// DividendsMarkdown renders the dividend pivot: one row per month, one
// column per instrument.
func DividendsMarkdown(p assets.DividendPivot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Dividends from %s to %s", p.Window.From, p.Window.To))
	if p.Empty() {
		doc.PlainText("No dividend received.")
		return doc.String()
	}

	header := append(append([]string{"Month"}, p.Instruments...), "Total")
	table := md.TableSet{Header: header, Alignment: alignment(len(header))}
	var total assets.Money
	for i, month := range p.Months {
		cells := []string{month.Format("2006-01")}
		for _, m := range p.Cells[i] {
			cells = append(cells, money(m))
		}
		mt := p.MonthTotal(i)
		total = total.Add(mt)
		table.Rows = append(table.Rows, append(cells, mt.String()))
	}
	cells := []string{md.Bold("Total")}
	for j := range p.Instruments {
		cells = append(cells, p.InstrumentTotal(j).String())
	}
	table.Rows = append(table.Rows, append(cells, total.String()))
	doc.Table(table)
	return doc.String()
}

// ActivityMarkdown renders the activity log, newest first.
func ActivityMarkdown(a assets.ActivityLog) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Activity of %s", a.Period))
	if len(a.Lines) > 0 {
		table := md.TableSet{
			Header:    []string{"Date", "Account", "Kind", "Instrument", "Quantity", "Price", "Amount"},
			Alignment: alignment(7),
		}
		for _, l := range a.Lines {
			qty, price := "", ""
			if l.Kind == assets.ActivityBuy || l.Kind == assets.ActivitySell {
				qty, price = l.Quantity.String(), l.Price.String()
			}
			table.Rows = append(table.Rows, []string{l.Date.String(), l.Account, string(l.Kind), l.Instrument, qty, price, l.Amount.String()})
		}
		doc.Table(table)
	}

	doc.Table(md.TableSet{
		Header:    []string{"Total", "Amount"},
		Alignment: alignment(2),
		Rows: [][]string{
			{"Bought", a.Bought.String()},
			{"Sold", a.Sold.String()},
			{"Dividends", a.Dividends.String()},
			{"Contributions", a.Contributions.String()},
		},
	})
	return doc.String()
}

// PricesMarkdown renders month end prices, in each instrument currency.
func PricesMarkdown(t assets.PriceTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Month end prices")
	header := []string{"Date"}
	for _, c := range t.Columns {
		header = append(header, fmt.Sprintf("%s (%s)", c.Label, c.Currency))
	}
	table := md.TableSet{Header: header, Alignment: alignment(len(header))}
	for i, day := range t.Calendar {
		cells := []string{day.String()}
		for _, p := range t.Row(i) {
			if p == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, p.String())
		}
		table.Rows = append(table.Rows, cells)
	}
	doc.Table(table)
	return doc.String()
}
