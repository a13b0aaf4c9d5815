package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/assets"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// percent formats a ratio as a signed percentage, "-" when undefined.
func percent(r *decimal.Decimal) string {
	if r == nil {
		return "-"
	}
	p := r.Shift(2).StringFixed(2)
	if r.IsPositive() {
		p = "+" + p
	}
	return p + "%"
}

// share formats a weight as an unsigned percentage.
func share(w decimal.Decimal) string { return w.Shift(2).StringFixed(1) + "%" }

// money formats m, or blank for zero.
func money(m assets.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.String()
}

// alignment returns the alignment of an n columns table: the first column
// left aligned, the others right aligned.
func alignment(n int) []md.TableAlignment {
	align := make([]md.TableAlignment, n)
	for i := range align {
		align[i] = md.AlignRight
	}
	align[0] = md.AlignLeft
	return align
}
