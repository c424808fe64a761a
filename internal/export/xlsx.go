// internal/export/xlsx.go
//
// unioffice-backed workbook writer. It consumes the SheetModel IR and knows
// nothing about briefs: values, fills, merges, hyperlinks, widths and freeze
// specs all arrive pre-computed from the sheet builders.

package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

const (
	fontName     = "Calibri"
	fontSizeBody = 11
	fontSizeHead = 12

	headerFill = "1F2937"
	linkColor  = "1D4ED8"
	textColor  = "111827"
)

// styleKey identifies one distinct cell style inside a workbook.
type styleKey struct {
	fill   string
	bold   bool
	header bool
	wrap   bool
	link   bool
}

// styleCache lazily materializes cell styles, one per distinct key, so a
// large brief does not flood the stylesheet.
type styleCache struct {
	wb     *spreadsheet.Workbook
	styles map[styleKey]spreadsheet.CellStyle
}

func newStyleCache(wb *spreadsheet.Workbook) *styleCache {
	return &styleCache{wb: wb, styles: map[styleKey]spreadsheet.CellStyle{}}
}

func (sc *styleCache) get(key styleKey) spreadsheet.CellStyle {
	if cs, ok := sc.styles[key]; ok {
		return cs
	}
	cs := sc.wb.StyleSheet.AddCellStyle()

	font := sc.wb.StyleSheet.AddFont()
	font.SetName(fontName)
	switch {
	case key.header:
		font.SetSize(fontSizeHead)
		font.SetBold(true)
		font.SetColor(color.White)
	case key.link:
		font.SetSize(fontSizeBody)
		font.SetBold(key.bold)
		font.SetColor(hexColor(linkColor))
	default:
		font.SetSize(fontSizeBody)
		font.SetBold(key.bold)
		font.SetColor(hexColor(textColor))
	}
	cs.SetFont(font)

	fillHex := key.fill
	if key.header {
		fillHex = headerFill
	}
	if fillHex != "" {
		fill := sc.wb.StyleSheet.Fills().AddFill()
		pattern := fill.SetPatternFill()
		pattern.SetPattern(sml.ST_PatternTypeSolid)
		pattern.SetFgColor(hexColor(fillHex))
		cs.SetFill(fill)
	}

	if key.header {
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentCenter)
		cs.SetVerticalAlignment(sml.ST_VerticalAlignmentCenter)
	} else {
		cs.SetVerticalAlignment(sml.ST_VerticalAlignmentTop)
	}
	if key.wrap || key.header {
		cs.SetWrapped(true)
	}

	sc.styles[key] = cs
	return cs
}

// hexColor converts an "RRGGBB" string to a workbook color, falling back to
// black for junk values.
func hexColor(hex string) color.Color {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return color.Black
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

// colName converts a zero-based column index to its A1-style letters.
func colName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// cellRef builds an A1-style reference from zero-based coordinates.
func cellRef(row, col int) string {
	return colName(col) + strconv.Itoa(row+1)
}

// WriteWorkbook renders the sheet models into one XLSX payload.
func WriteWorkbook(sheets []SheetModel, w io.Writer) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no sheets to write")
	}
	wb := spreadsheet.New()
	styles := newStyleCache(wb)

	for i := range sheets {
		writeSheet(wb, styles, &sheets[i])
	}

	if err := wb.Validate(); err != nil {
		return fmt.Errorf("export: workbook invalid: %w", err)
	}
	if err := wb.Save(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(wb *spreadsheet.Workbook, styles *styleCache, model *SheetModel) {
	sheet := wb.AddSheet()
	sheet.SetName(model.Name)

	for _, rowModel := range model.Rows {
		row := sheet.AddRow()
		if rowModel.HeightPt > 0 {
			row.SetHeight(measurement.Distance(rowModel.HeightPt) * measurement.Point)
		}
		for _, cm := range rowModel.Cells {
			cell := row.AddCell()
			if cm.Value != "" {
				cell.SetString(cm.Value)
			}
			if cm.Hyperlink != "" {
				cell.SetHyperlink(sheet.AddHyperlink(cm.Hyperlink))
			}
			cell.SetStyle(styles.get(styleKey{
				fill:   cm.Fill,
				bold:   cm.Bold,
				header: cm.Header,
				wrap:   cm.Wrap,
				link:   cm.Hyperlink != "",
			}))
		}
	}

	for _, m := range model.Merges {
		sheet.AddMergedCells(cellRef(m.FromRow, m.FromCol), cellRef(m.ToRow, m.ToCol))
	}

	for i, width := range model.ColWidths {
		if width > 0 {
			// column widths are in characters
			sheet.Column(uint32(i + 1)).SetWidth(measurement.Distance(width) * measurement.Character)
		}
	}

	applyFreeze(sheet, model.Freeze)
}

// applyFreeze pins the header rows and leading columns. unioffice only
// exposes single-row/column freezing, so the pane split is widened through
// the underlying worksheet.
func applyFreeze(sheet spreadsheet.Sheet, freeze FreezeSpec) {
	if freeze.Rows == 0 && freeze.Cols == 0 {
		return
	}
	sheet.SetFrozen(freeze.Rows > 0, freeze.Cols > 0)
	ws := sheet.X()
	if ws.SheetViews == nil || len(ws.SheetViews.SheetView) == 0 {
		return
	}
	pane := ws.SheetViews.SheetView[0].Pane
	if pane == nil {
		return
	}
	pane.XSplitAttr = unioffice.Float64(float64(freeze.Cols))
	pane.YSplitAttr = unioffice.Float64(float64(freeze.Rows))
	pane.TopLeftCellAttr = unioffice.String(cellRef(freeze.Rows, freeze.Cols))
}
