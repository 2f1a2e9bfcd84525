// Package htmltable scrapes the portal's HTML tables into rows. The portal
// renders everything as tables with no stable markup contract, so the parser
// is deliberately forgiving: banner rows are skipped by fixed substrings,
// <br> becomes a newline inside a cell, and fully empty rows never surface.
package htmltable

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

// bannerMarkers identify navigation/login chrome rows that are not records.
var bannerMarkers = []string{
	"logged in as",
	"blackhole route",
}

// Parse extracts every table in the document into an ordered row sequence.
// When the document contains no table rows at all it returns the single
// empty-row sentinel; callers treat that as "no results", not as an error.
func Parse(r io.Reader) ([]domain.Row, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var rows []domain.Row
	for _, table := range findAll(doc, atom.Table) {
		rows = append(rows, parseTable(table)...)
	}

	if len(rows) == 0 {
		return []domain.Row{{Cells: []string{}}}, nil
	}
	return rows, nil
}

// IsNoResults reports whether rows is the "no tables found" sentinel.
func IsNoResults(rows []domain.Row) bool {
	return len(rows) == 1 && !rows[0].Header && rows[0].Empty()
}

func parseTable(table *html.Node) []domain.Row {
	var rows []domain.Row
	sawHeader := false

	for _, tr := range childRows(table) {
		if ths := directCells(tr, atom.Th); len(ths) > 0 {
			if sawHeader {
				continue
			}
			names := make([]string, 0, len(ths))
			nonEmpty := false
			for _, th := range ths {
				name := cellText(th)
				if name != "" {
					nonEmpty = true
				}
				names = append(names, name)
			}
			if nonEmpty {
				rows = append(rows, domain.Row{Header: true, Cells: names})
				sawHeader = true
			}
			continue
		}

		tds := directCells(tr, atom.Td)
		if len(tds) == 0 {
			continue
		}

		cells := make([]string, 0, len(tds))
		for _, td := range tds {
			cells = append(cells, cellText(td))
		}

		if isBannerRow(cells) {
			continue
		}
		row := domain.Row{Cells: cells}
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

func isBannerRow(cells []string) bool {
	joined := strings.ToLower(strings.Join(cells, " "))
	for _, marker := range bannerMarkers {
		if strings.Contains(joined, marker) {
			return true
		}
	}
	return false
}

// cellText flattens a cell to text: <br> becomes a newline, tags are dropped,
// each line is trimmed, and blank lines are discarded.
func cellText(cell *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString("\n")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(cell)

	lines := make([]string, 0, 1)
	for _, line := range strings.Split(b.String(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

// findAll collects every element of the given kind, including nested ones.
func findAll(n *html.Node, kind atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == kind {
			found = append(found, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return found
}

// childRows returns the tr elements belonging to this table, not descending
// into nested tables (those are parsed as tables of their own).
func childRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.DataAtom == atom.Table {
				continue
			}
			if child.Type == html.ElementNode && child.DataAtom == atom.Tr {
				rows = append(rows, child)
				continue
			}
			walk(child)
		}
	}
	walk(table)
	return rows
}

// directCells returns th or td cells belonging to this row, again without
// crossing into nested tables.
func directCells(tr *html.Node, kind atom.Atom) []*html.Node {
	var cells []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.DataAtom == atom.Table {
				continue
			}
			if child.Type == html.ElementNode && child.DataAtom == kind {
				cells = append(cells, child)
				continue
			}
			walk(child)
		}
	}
	walk(tr)
	return cells
}
