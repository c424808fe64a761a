// internal/export/sheet.go
//
// Intermediate representation for the spreadsheet export. The sheet builders
// are pure functions from the document to this model; the unioffice writer
// (and the legacy HTML writer) only consume it. Keeping layout and writer
// apart is what lets the layout be tested without a workbook library.

package export

// CellModel is one cell of a sheet, already positioned by its row.
type CellModel struct {
	Value string
	// Hyperlink is the full URL target when the cell is clickable; Value
	// then carries the (possibly truncated) display text.
	Hyperlink string
	// Fill is a hex RRGGBB background, empty for no fill.
	Fill string
	Bold bool
	// Header marks the cell for the dark header style.
	Header bool
	// Wrap enables text wrapping; multi-line values need it.
	Wrap bool
}

// RowModel is one physical sheet row.
type RowModel struct {
	Cells []CellModel
	// HeightPt is an explicit row height in points, 0 for default.
	HeightPt float64
}

// MergeRange is an inclusive rectangular merge, zero-based coordinates.
type MergeRange struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

// FreezeSpec pins header rows and leading columns while scrolling.
type FreezeSpec struct {
	Rows int
	Cols int
}

// SheetModel is a fully laid out worksheet.
type SheetModel struct {
	Name string
	Rows []RowModel
	// ColWidths is the per-column width in characters, in column order.
	ColWidths []int
	Merges    []MergeRange
	Freeze    FreezeSpec
}

// cellAt grows the row as needed and returns the cell at col.
func (r *RowModel) cellAt(col int) *CellModel {
	for len(r.Cells) <= col {
		r.Cells = append(r.Cells, CellModel{})
	}
	return &r.Cells[col]
}

// ColumnCount returns the widest row length.
func (s *SheetModel) ColumnCount() int {
	n := len(s.ColWidths)
	for _, row := range s.Rows {
		if len(row.Cells) > n {
			n = len(row.Cells)
		}
	}
	return n
}
