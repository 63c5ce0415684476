package almanac

import (
	"fmt"

	"mlbstats/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// rows containing any of these cells are banners or column headers
const skipCellSelector = "td.banner, td.headerBlue, td.header"

// the first cell of a row that starts a new category is styled with this
// class, tied rows that follow it are not
const CategoryMarkerClass = "datacolBlue"

type RowKind int

const (
	// RowSkipped is a banner, section header or column header row.
	RowSkipped RowKind = iota
	// RowEmpty has no data cells.
	RowEmpty
	// RowMarker starts a new category.
	RowMarker
	// RowData is any other row with data cells.
	RowData
)

func (k RowKind) String() string {
	switch k {
	case RowSkipped:
		return "skipped"
	case RowEmpty:
		return "empty"
	case RowMarker:
		return "marker"
	case RowData:
		return "data"
	}
	return fmt.Sprintf("RowKind(%d)", int(k))
}

// Row is a table row reduced to what extraction needs: its kind and the
// normalized text of its cells.
type Row struct {
	Index int
	Kind  RowKind
	Cells []string
}

func ClassifyRow(index int, tr *goquery.Selection) Row {
	if tr.Find(skipCellSelector).Length() > 0 {
		return Row{Index: index, Kind: RowSkipped}
	}

	tds := tr.Find("td")
	if tds.Length() == 0 {
		return Row{Index: index, Kind: RowEmpty}
	}

	cells := make([]string, tds.Length())
	tds.Each(func(i int, td *goquery.Selection) {
		cells[i] = htmlutil.Text(td)
	})

	kind := RowData
	if htmlutil.HasClassPrefix(tds.First(), CategoryMarkerClass) {
		kind = RowMarker
	}
	return Row{Index: index, Kind: kind, Cells: cells}
}

// ClassifyRows classifies every row of a block in document order.
func ClassifyRows(block *goquery.Selection) []Row {
	trs := block.Find("tr")
	rows := make([]Row, 0, trs.Length())
	trs.Each(func(i int, tr *goquery.Selection) {
		rows = append(rows, ClassifyRow(i, tr))
	})
	return rows
}

// MalformedRowError describes a data row that could not be turned into a
// record, it is skipped and counted.
type MalformedRowError struct {
	Row    int
	Cells  []string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row %d (%d cells): %s", e.Row, len(e.Cells), e.Reason)
}

func malformed(row Row, reason string) *MalformedRowError {
	return &MalformedRowError{Row: row.Index, Cells: row.Cells, Reason: reason}
}
