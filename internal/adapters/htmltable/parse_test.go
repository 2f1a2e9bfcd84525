package htmltable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

func parseString(t *testing.T, doc string) []domain.Row {
	t.Helper()
	rows, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return rows
}

func TestParseHeaderAndDataRows(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `
		<html><body><table>
			<tr><th>ID</th><th>IP Address</th><th>Opened By</th></tr>
			<tr><td>101</td><td>10.0.0.1/32</td><td>jdoe</td></tr>
			<tr><td>102</td><td>10.0.0.2/32</td><td>asmith</td></tr>
		</table></body></html>`)

	require.Len(t, rows, 3)
	assert.True(t, rows[0].Header)
	assert.Equal(t, []string{"ID", "IP Address", "Opened By"}, rows[0].Cells)
	assert.Equal(t, []string{"101", "10.0.0.1/32", "jdoe"}, rows[1].Cells)
	assert.Equal(t, []string{"102", "10.0.0.2/32", "asmith"}, rows[2].Cells)
}

func TestParseConvertsLineBreaksInsideCells(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `
		<table>
			<tr><td>101</td><td>TKT-1<br>TKT-2<br/>TKT-3</td></tr>
		</table>`)

	require.Len(t, rows, 1)
	assert.Equal(t, "TKT-1\nTKT-2\nTKT-3", rows[0].Cells[1])
}

func TestParseStripsMarkupAndBlankLines(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `
		<table>
			<tr><td><b> 101 </b></td><td>  <a href="/x">10.0.0.1</a> <br>  <br> active </td></tr>
		</table>`)

	require.Len(t, rows, 1)
	assert.Equal(t, "101", rows[0].Cells[0])
	assert.Equal(t, "10.0.0.1\nactive", rows[0].Cells[1])
}

func TestParseSkipsBannerRows(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `
		<table>
			<tr><td>You are logged in as jdoe</td></tr>
			<tr><td>Blackhole Route Server</td></tr>
			<tr><td>101</td><td>10.0.0.1/32</td></tr>
		</table>`)

	require.Len(t, rows, 1)
	assert.Equal(t, "101", rows[0].Cells[0])
}

func TestParseDiscardsFullyEmptyRows(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `
		<table>
			<tr><td></td><td>  </td></tr>
			<tr><td>101</td><td></td></tr>
		</table>`)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"101", ""}, rows[0].Cells)
}

func TestParseNoTablesReturnsSentinel(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `<html><body><p>Nothing here.</p></body></html>`)

	require.Len(t, rows, 1)
	assert.True(t, IsNoResults(rows))
}

func TestParseKeepsFirstHeaderPerTableOnly(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `
		<table>
			<tr><th>ID</th></tr>
			<tr><td>1</td></tr>
			<tr><th>Shadow header</th></tr>
			<tr><td>2</td></tr>
		</table>`)

	headers := 0
	for _, row := range rows {
		if row.Header {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
	require.Len(t, rows, 3)
}

func TestParseMultipleTables(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `
		<table><tr><th>ID</th></tr><tr><td>1</td></tr></table>
		<table><tr><th>ID</th></tr><tr><td>2</td></tr></table>`)

	// Each table contributes its own header; de-duplication is the
	// aggregator's job, not the parser's.
	require.Len(t, rows, 4)
	assert.True(t, rows[0].Header)
	assert.True(t, rows[2].Header)
}

func TestParseDecodesEntities(t *testing.T) {
	t.Parallel()

	rows := parseString(t, `<table><tr><td>a &amp; b</td></tr></table>`)

	require.Len(t, rows, 1)
	assert.Equal(t, "a & b", rows[0].Cells[0])
}

func TestIsNoResults(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNoResults([]domain.Row{{Cells: []string{}}}))
	assert.False(t, IsNoResults(nil))
	assert.False(t, IsNoResults([]domain.Row{{Cells: []string{"101"}}}))
	assert.False(t, IsNoResults([]domain.Row{{Header: true, Cells: []string{}}}))
}
