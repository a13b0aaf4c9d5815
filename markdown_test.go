package assets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastMarkdownTable(t *testing.T) {
	src := "\ufeff---\ntitle: x\n---\n" + `
| a | b |
|---|---|
| 1 | 2 |

Some text with **emphasis**.

| account | memo |
|---|---|
| kr | **bold** and ` + "`code`" + ` |
| usa | |
`
	rows, err := LastMarkdownTable([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"account", "memo"},
		{"kr", "bold and code"},
		{"usa", ""},
	}, rows)
}

func TestLastMarkdownTableNone(t *testing.T) {
	_, err := LastMarkdownTable([]byte("# nothing here\n"))
	assert.Error(t, err)
}

func TestMarkdownToCSV(t *testing.T) {
	in := `| account | price |
|---|---|
| kr | 78,000 |
`
	var out bytes.Buffer
	require.NoError(t, MarkdownToCSV(strings.NewReader(in), &out))
	assert.Equal(t, "account,price\nkr,\"78,000\"\n", out.String())
}
