// internal/export/csv.go
//
// Semicolon-delimited CSV export of the brief. The payload is built for
// Excel on Windows: UTF-8 BOM prefix, CRLF between records and CRLF between
// the values stacked inside one multi-value cell.

package export

import (
	"strings"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

const (
	csvSeparator = ";"
	crlf         = "\r\n"
	bom          = "\uFEFF"

	// MetaSectionTitle heads the key/value block under the room rows.
	MetaSectionTitle = "ФАЙЛЫ / ДОП. ИНФО"
	metaKeyHeader    = "Параметр"
	metaValueHeader  = "Значение"
	radiatorsLabel   = "Радиаторы"
	ceilingsLabel    = "Высота потолков (мм)"
	doorsLabel       = "Высота дверей (мм)"
)

// CellText renders a cell the way a single spreadsheet cell holds it: text
// first, then every link on its own line, CRLF-joined.
func CellText(c *brief.Cell) string {
	if c == nil {
		return ""
	}
	var parts []string
	if text := strings.TrimSpace(c.Text); text != "" {
		parts = append(parts, text)
	}
	for _, link := range c.Links {
		if link = strings.TrimSpace(link); link != "" {
			parts = append(parts, link)
		}
	}
	return strings.Join(parts, crlf)
}

// escCSV quotes a value when it contains the separator, a quote or a
// newline, doubling internal quotes.
func escCSV(v string) string {
	if strings.ContainsAny(v, csvSeparator+"\"\n\r") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

func csvRow(values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escCSV(v)
	}
	return strings.Join(escaped, csvSeparator)
}

// metaPairs collects the non-blank meta entries in export order.
func metaPairs(m *brief.Meta) [][2]string {
	var pairs [][2]string
	push := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			pairs = append(pairs, [2]string{label, value})
		}
	}
	for _, lf := range m.LinkFields() {
		push(lf.Label, lf.Value)
	}
	push(radiatorsLabel, CellText(&m.Radiators))
	push(ceilingsLabel, m.CeilingsMm)
	push(doorsLabel, m.DoorsMm)
	push(m.ResolvedOtherLabel(), m.OtherMm)
	return pairs
}

// BriefCSV renders the whole document as one CSV payload: a header row, one
// row per room, and, when anything is filled in, the trailing meta block.
func BriefCSV(doc *brief.Document) string {
	fields := schema.Fields()

	headers := make([]string, 0, len(fields)+1)
	headers = append(headers, schema.RoomColumnLabel)
	for _, f := range fields {
		headers = append(headers, f.Label)
	}

	lines := []string{csvRow(headers...)}

	for i := range doc.Rooms {
		room := &doc.Rooms[i]
		row := make([]string, 0, len(fields)+1)
		row = append(row, room.Name)
		for _, f := range fields {
			row = append(row, CellText(room.Cell(f.Key)))
		}
		lines = append(lines, csvRow(row...))
	}

	if pairs := metaPairs(&doc.Meta); len(pairs) > 0 {
		// a bit of air before the meta block, Excel reads this better
		lines = append(lines, "", "")
		lines = append(lines, csvRow(MetaSectionTitle))
		lines = append(lines, csvRow(metaKeyHeader, metaValueHeader))
		for _, pair := range pairs {
			lines = append(lines, csvRow(pair[0], pair[1]))
		}
	}

	return bom + strings.Join(lines, crlf)
}
