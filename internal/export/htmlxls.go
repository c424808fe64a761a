// internal/export/htmlxls.go
//
// Legacy styled export: an HTML table with an Excel-compatible preamble,
// saved as .xls. Excel opens it with fonts, borders and links intact. This
// path predates the real workbook writer and stays as the fallback when
// that writer fails.

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

const htmlXLSHead = `<html xmlns:o="urn:schemas-microsoft-com:office:office"
      xmlns:x="urn:schemas-microsoft-com:office:excel"
      xmlns="http://www.w3.org/TR/REC-html40">
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: Calibri, Arial, sans-serif; }
    table { border-collapse: collapse; }
    .grid td, .grid th { border: 1px solid #d9d9d9; padding: 6px 8px; vertical-align: top; }
    .grid th { font-weight: 700; font-size: 12.5pt; background: #1f2937; color: #ffffff; text-align: left; white-space: nowrap; }
    .grid td { font-size: 10.5pt; line-height: 1.25; }
    .room { font-weight: 700; white-space: nowrap; }
    .links a { color: #0563C1; text-decoration: underline; }
    .metaTitle { font-weight: 800; font-size: 13pt; padding-top: 12px; }
    .meta td { border: 1px solid #d9d9d9; padding: 6px 8px; font-size: 10.5pt; vertical-align: top; }
    .metaKey { width: 320px; font-weight: 700; background: #f3f4f6; }
  </style>
</head>
<body>`

// cellHTML renders a cell as stacked text lines and link anchors.
func cellHTML(c *brief.Cell) string {
	var sb strings.Builder
	for _, b := range c.ContentBlocks() {
		switch b.Kind {
		case brief.BlockText:
			value := strings.ReplaceAll(html.EscapeString(b.Value), "\n", "<br/>")
			sb.WriteString(`<div class="txt">` + value + `</div>`)
		case brief.BlockLink:
			target := html.EscapeString(strings.TrimSpace(b.Value))
			label := html.EscapeString(linkDisplay(b))
			sb.WriteString(`<div class="links"><a href="` + target + `">` + label + `</a></div>`)
		}
	}
	return sb.String()
}

// BriefHTMLXLS renders the document as the legacy Excel HTML payload,
// BOM-prefixed so Excel detects UTF-8.
func BriefHTMLXLS(doc *brief.Document) string {
	var sb strings.Builder
	sb.WriteString(bom)
	sb.WriteString(htmlXLSHead)

	sb.WriteString(`<table class="grid"><tr>`)
	sb.WriteString("<th>" + html.EscapeString(schema.RoomColumnLabel) + "</th>")
	for _, f := range schema.Fields() {
		sb.WriteString("<th>" + html.EscapeString(f.Label) + "</th>")
	}
	sb.WriteString("</tr>")

	for i := range doc.Rooms {
		room := &doc.Rooms[i]
		fill := strings.TrimSpace(room.ColorTag)
		style := ""
		if fill != "" {
			style = fmt.Sprintf(` style="background:#%s"`, html.EscapeString(fill))
		}
		sb.WriteString("<tr>")
		sb.WriteString(`<td class="room"` + style + `>` + html.EscapeString(room.Name) + "</td>")
		for _, f := range schema.Fields() {
			sb.WriteString("<td" + style + ">" + cellHTML(room.Cell(f.Key)) + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")

	if pairs := metaPairs(&doc.Meta); len(pairs) > 0 {
		sb.WriteString(`<div class="metaTitle">` + html.EscapeString(MetaSectionTitle) + `</div>`)
		sb.WriteString(`<table class="meta">`)
		for _, pair := range pairs {
			value := html.EscapeString(pair[1])
			if isBareURL(pair[1]) {
				value = `<a href="` + html.EscapeString(pair[1]) + `">` + value + `</a>`
			} else {
				value = strings.ReplaceAll(value, crlf, "<br/>")
				value = strings.ReplaceAll(value, "\n", "<br/>")
			}
			sb.WriteString(`<tr><td class="metaKey">` + html.EscapeString(pair[0]) + `</td><td>` + value + `</td></tr>`)
		}
		sb.WriteString("</table>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}
