// internal/export/brief_sheet.go
//
// Layout of the main "BRIEF" sheet: a two-row grouped header, one block of
// physical rows per room (the room's densest field decides the row span),
// and a compact meta block underneath. Every cell of a room shares the
// room's fill color, so a room reads as one contiguous colored band no
// matter how many rows it spans.

package export

import (
	"net/url"
	"strings"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

const (
	// BriefSheetName and LinksSheetName are the workbook sheet titles.
	BriefSheetName = "BRIEF"
	LinksSheetName = "LINKS"

	headerRowHeightPt = 26
	roomColumnWidth   = 26

	// metaBlockCols keeps the meta block narrow instead of stretching it
	// across the full table width.
	metaBlockCols = 4

	// maxLinkDisplay caps the visible label of a hyperlink cell. The
	// target always stays the full URL.
	maxLinkDisplay = 40
)

// linkDisplay builds the visible text for a link block: the preset label if
// the user set one, otherwise a truncated host/path form of the URL.
func linkDisplay(b brief.Block) string {
	if label := strings.TrimSpace(b.Label); label != "" {
		return truncate(label, maxLinkDisplay)
	}
	return truncate(shortURL(b.Value), maxLinkDisplay)
}

// shortURL compresses a URL down to host and path for display.
func shortURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed
	}
	out := u.Host
	if p := strings.TrimSuffix(u.Path, "/"); p != "" && p != "/" {
		out += p
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// BuildBriefSheet lays out the room grid and meta block for the workbook.
func BuildBriefSheet(doc *brief.Document, fields []schema.Field) SheetModel {
	sheet := SheetModel{Name: BriefSheetName}

	sheet.ColWidths = append(sheet.ColWidths, roomColumnWidth)
	for _, f := range fields {
		sheet.ColWidths = append(sheet.ColWidths, f.Width)
	}

	buildBriefHeader(&sheet, fields)
	for i := range doc.Rooms {
		appendRoomRows(&sheet, &doc.Rooms[i], fields)
	}
	appendMetaBlock(&sheet, &doc.Meta)

	sheet.Freeze = FreezeSpec{Rows: 2, Cols: 1}
	return sheet
}

// buildBriefHeader emits the two header rows: the room-name header and each
// content header merged across both rows, the geometry run under one merged
// group title.
func buildBriefHeader(sheet *SheetModel, fields []schema.Field) {
	top := RowModel{HeightPt: headerRowHeightPt}
	sub := RowModel{HeightPt: headerRowHeightPt}

	*top.cellAt(0) = CellModel{Value: schema.RoomColumnLabel, Header: true, Wrap: true}
	sheet.Merges = append(sheet.Merges, MergeRange{FromRow: 0, FromCol: 0, ToRow: 1, ToCol: 0})

	span := 0
	for _, f := range fields {
		if f.Group == schema.GroupGeometry {
			span++
		}
	}
	if span > 0 {
		*top.cellAt(1) = CellModel{Value: schema.GeometryGroupLabel, Header: true, Wrap: true}
		for col := 2; col <= span; col++ {
			*top.cellAt(col) = CellModel{Header: true}
		}
		sheet.Merges = append(sheet.Merges, MergeRange{FromRow: 0, FromCol: 1, ToRow: 0, ToCol: span})
	}

	for i, f := range fields {
		col := i + 1
		if f.Group == schema.GroupGeometry {
			*sub.cellAt(col) = CellModel{Value: f.Label, Header: true, Wrap: true}
			continue
		}
		*top.cellAt(col) = CellModel{Value: f.Label, Header: true, Wrap: true}
		*sub.cellAt(col) = CellModel{Header: true}
		sheet.Merges = append(sheet.Merges, MergeRange{FromRow: 0, FromCol: col, ToRow: 1, ToCol: col})
	}

	sheet.Rows = append(sheet.Rows, top, sub)
}

// appendRoomRows writes one room as span physical rows: row k carries the
// k-th content block of every field, blank filler otherwise, all on the
// room's fill color. The name cell spans the full room height.
func appendRoomRows(sheet *SheetModel, room *brief.Room, fields []schema.Field) {
	span := room.Span()
	startRow := len(sheet.Rows)
	fill := room.ColorTag

	blocksByField := make([][]brief.Block, len(fields))
	for i, f := range fields {
		blocksByField[i] = room.Cell(f.Key).ContentBlocks()
	}

	for k := 0; k < span; k++ {
		row := RowModel{}
		name := &CellModel{Fill: fill, Wrap: true}
		if k == 0 {
			name.Value = room.Name
			name.Bold = true
		}
		*row.cellAt(0) = *name

		for i := range fields {
			cell := CellModel{Fill: fill, Wrap: true}
			if blocks := blocksByField[i]; k < len(blocks) {
				b := blocks[k]
				if b.Kind == brief.BlockLink {
					cell.Value = linkDisplay(b)
					cell.Hyperlink = strings.TrimSpace(b.Value)
				} else {
					cell.Value = b.Value
				}
			}
			*row.cellAt(i + 1) = cell
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if span > 1 {
		sheet.Merges = append(sheet.Merges, MergeRange{
			FromRow: startRow, FromCol: 0,
			ToRow: startRow + span - 1, ToCol: 0,
		})
	}
}

// appendMetaBlock writes the project files/info under the grid, confined to
// the first few columns.
func appendMetaBlock(sheet *SheetModel, m *brief.Meta) {
	pairs := metaPairs(m)
	if len(pairs) == 0 {
		return
	}

	sheet.Rows = append(sheet.Rows, RowModel{}) // visual separator

	titleRow := len(sheet.Rows)
	title := RowModel{HeightPt: headerRowHeightPt}
	*title.cellAt(0) = CellModel{Value: MetaSectionTitle, Bold: true}
	sheet.Rows = append(sheet.Rows, title)
	sheet.Merges = append(sheet.Merges, MergeRange{
		FromRow: titleRow, FromCol: 0,
		ToRow: titleRow, ToCol: metaBlockCols - 1,
	})

	for _, pair := range pairs {
		rowIdx := len(sheet.Rows)
		row := RowModel{}
		*row.cellAt(0) = CellModel{Value: pair[0], Bold: true, Wrap: true}
		value := CellModel{Value: pair[1], Wrap: true}
		if isBareURL(pair[1]) {
			value.Value = truncate(shortURL(pair[1]), maxLinkDisplay)
			value.Hyperlink = pair[1]
		}
		*row.cellAt(1) = value
		row.cellAt(metaBlockCols - 1) // pad so the merge range exists
		sheet.Rows = append(sheet.Rows, row)
		sheet.Merges = append(sheet.Merges, MergeRange{
			FromRow: rowIdx, FromCol: 1,
			ToRow: rowIdx, ToCol: metaBlockCols - 1,
		})
	}
}

// isBareURL reports whether the value is a single http(s) URL with no
// surrounding text.
func isBareURL(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, " \n\r\t") {
		return false
	}
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}
