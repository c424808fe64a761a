// internal/export/text.go
//
// Plain-text rendering of the brief, for the clipboard and .txt download.
// This is also the last-resort export path: it has no dependencies and
// cannot fail.

package export

import (
	"strings"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

const textTitle = "ТЗ ДЛЯ ВИЗУАЛИЗАТОРА — ZA RAMKI"

// BriefText renders the document as a labeled plain-text brief.
func BriefText(doc *brief.Document) string {
	var lines []string
	lines = append(lines,
		textTitle,
		strings.Repeat("=", len([]rune(textTitle))),
		"",
	)

	for i := range doc.Rooms {
		room := &doc.Rooms[i]
		name := room.Name
		if strings.TrimSpace(name) == "" {
			name = "(не указано)"
		}
		lines = append(lines, "Помещение: "+name, strings.Repeat("-", 32))

		for _, f := range schema.Fields() {
			cell := room.Cell(f.Key)
			blocks := cell.ContentBlocks()
			if len(blocks) == 0 {
				continue
			}
			lines = append(lines, f.Label+":")
			for _, b := range blocks {
				entry := "- " + b.Value
				if b.Kind == brief.BlockLink && strings.TrimSpace(b.Label) != "" {
					entry = "- " + b.Label + ": " + b.Value
				}
				lines = append(lines, entry)
			}
			lines = append(lines, "")
		}
		lines = append(lines, "")
	}

	if pairs := metaPairs(&doc.Meta); len(pairs) > 0 {
		lines = append(lines, MetaSectionTitle, strings.Repeat("-", 17))
		for _, pair := range pairs {
			value := strings.ReplaceAll(pair[1], crlf, "\n  ")
			lines = append(lines, pair[0]+": "+value)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
