// internal/export/links_sheet.go
//
// The flattened "LINKS" sheet: one row per individual link block across all
// rooms and fields, plus the meta links. A spreadsheet cell can carry only
// one hyperlink target, so the main sheet is necessarily partial. This
// sheet is the lossless index of every link the user entered.

package export

import (
	"strings"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

// metaRoomPlaceholder stands in for the room name on rows that belong to
// the project meta rather than a room.
const metaRoomPlaceholder = "—"

var linksHeader = []string{"Помещение", "Поле", "Метка", "Ссылка"}

var linksColWidths = []int{26, 30, 24, 60}

func linkRow(room, field, label, target string) RowModel {
	row := RowModel{}
	*row.cellAt(0) = CellModel{Value: room, Wrap: true}
	*row.cellAt(1) = CellModel{Value: field, Wrap: true}
	*row.cellAt(2) = CellModel{Value: label, Wrap: true}
	*row.cellAt(3) = CellModel{
		Value:     truncate(shortURL(target), maxLinkDisplay),
		Hyperlink: strings.TrimSpace(target),
	}
	return row
}

// BuildLinksSheet flattens every link block into one addressable row.
func BuildLinksSheet(doc *brief.Document, fields []schema.Field) SheetModel {
	sheet := SheetModel{Name: LinksSheetName}
	sheet.ColWidths = append(sheet.ColWidths, linksColWidths...)

	header := RowModel{HeightPt: headerRowHeightPt}
	for i, label := range linksHeader {
		*header.cellAt(i) = CellModel{Value: label, Header: true}
	}
	sheet.Rows = append(sheet.Rows, header)

	for i := range doc.Rooms {
		room := &doc.Rooms[i]
		for _, f := range fields {
			for _, b := range room.Cell(f.Key).LinkBlocks() {
				sheet.Rows = append(sheet.Rows, linkRow(room.Name, f.Label, b.Label, b.Value))
			}
		}
	}

	for _, lf := range doc.Meta.LinkFields() {
		if strings.TrimSpace(lf.Value) == "" {
			continue
		}
		sheet.Rows = append(sheet.Rows, linkRow(metaRoomPlaceholder, lf.Label, "", lf.Value))
	}
	for _, b := range doc.Meta.Radiators.LinkBlocks() {
		sheet.Rows = append(sheet.Rows, linkRow(metaRoomPlaceholder, radiatorsLabel, b.Label, b.Value))
	}

	sheet.Freeze = FreezeSpec{Rows: 1}
	return sheet
}
