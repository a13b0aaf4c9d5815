package assets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// stripFrontMatter removes a leading '---' delimited block.
func stripFrontMatter(src []byte) []byte {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(src, []byte("---")) {
		return src
	}
	rest := src[3:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return src
	}
	rest = rest[end+len("\n---"):]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return rest[i+1:]
	}
	return nil
}

// LastMarkdownTable returns the cells of the last pipe table in a markdown
// document, header row first.
func LastMarkdownTable(src []byte) ([][]string, error) {
	src = stripFrontMatter(src)
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	var last *east.Table
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*east.Table); ok && entering {
			last = t
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, errors.New("no table found")
	}

	var rows [][]string
	for r := last.FirstChild(); r != nil; r = r.NextSibling() {
		var row []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			row = append(row, cellText(c, src))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cellText returns the plain text of a table cell.
func cellText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// MarkdownToCSV converts the last table of a markdown document to CSV.
func MarkdownToCSV(in io.Reader, out io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	rows, err := LastMarkdownTable(src)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	return w.WriteAll(rows)
}
