package export

import (
	"strings"
	"testing"

	"github.com/kapitan-marona/briefpro/internal/brief"
)

func TestCellTextJoinsWithCRLF(t *testing.T) {
	var cell brief.Cell
	cell.AppendText("matte white")
	cell.AppendLink("https://vendor.example/tile", "")
	if got := CellText(&cell); got != "matte white\r\nhttps://vendor.example/tile" {
		t.Fatalf("cell text = %q", got)
	}
	if got := CellText(nil); got != "" {
		t.Fatalf("nil cell text = %q", got)
	}
}

func TestEscCSV(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a;b", `"a;b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line1\nline2", "\"line1\nline2\""},
	}
	for _, tc := range cases {
		if got := escCSV(tc.in); got != tc.want {
			t.Fatalf("escCSV(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// splitCSVRecords splits a payload into records on CRLF, but only outside
// quoted fields: a multi-value cell keeps its internal CRLF joiner.
func splitCSVRecords(payload string) []string {
	var records []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(strings.TrimPrefix(payload, bom))
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteRune(c)
		case !inQuotes && c == '\r' && i+1 < len(runes) && runes[i+1] == '\n':
			records = append(records, cur.String())
			cur.Reset()
			i++
		default:
			cur.WriteRune(c)
		}
	}
	records = append(records, cur.String())
	return records
}

// splitCSVRow re-splits one emitted record by the documented CSV rules:
// semicolon separators, quoted fields may contain separators and newlines,
// doubled quotes collapse.
func splitCSVRow(row string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(row)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuotes && c == '"' && i+1 < len(runes) && runes[i+1] == '"':
			cur.WriteRune('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ';' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

func TestCSVEscapingRoundTrip(t *testing.T) {
	nasty := "a;b \"quoted\"\nnext line"
	got := splitCSVRow(csvRow("room", nasty, "tail"))
	if len(got) != 3 {
		t.Fatalf("field count = %d, want 3", len(got))
	}
	if got[1] != nasty {
		t.Fatalf("recovered = %q, want %q", got[1], nasty)
	}
}

func TestSplitCSVRecordsKeepsQuotedCRLF(t *testing.T) {
	payload := bom + "a;\"one\r\ntwo\"\r\nb;c"
	records := splitCSVRecords(payload)
	if len(records) != 2 {
		t.Fatalf("record count = %d, want 2", len(records))
	}
	if fields := splitCSVRow(records[0]); fields[1] != "one\r\ntwo" {
		t.Fatalf("quoted field = %q, want the CRLF kept", fields[1])
	}
}

func TestBriefCSVLayout(t *testing.T) {
	doc := brief.DefaultDocument()
	doc.RenameRoom(0, "Kitchen")
	walls := doc.Rooms[0].Cell("walls")
	walls.AppendText("matte white")
	walls.AppendLink("https://vendor.example/tile", "")
	doc.Meta.ConceptLink = "https://concept.example/board"

	payload := BriefCSV(doc)
	if !strings.HasPrefix(payload, bom) {
		t.Fatal("payload missing UTF-8 BOM")
	}
	records := splitCSVRecords(payload)

	header := splitCSVRow(records[0])
	if header[0] != "Наименование помещения" || header[1] != "Стены, цвет" {
		t.Fatalf("header = %#v", header[:2])
	}
	if len(header) != 10 {
		t.Fatalf("header width = %d, want 10", len(header))
	}

	room := splitCSVRow(records[1])
	if room[0] != "Kitchen" {
		t.Fatalf("room name = %q", room[0])
	}
	if room[1] != "matte white\r\nhttps://vendor.example/tile" {
		t.Fatalf("walls cell = %q", room[1])
	}

	joined := strings.Join(records, "\n")
	if !strings.Contains(joined, MetaSectionTitle) {
		t.Fatal("meta section missing")
	}
	if !strings.Contains(joined, "Параметр;Значение") {
		t.Fatal("meta header missing")
	}
	if !strings.Contains(joined, "Ссылка на концепт;https://concept.example/board") {
		t.Fatal("concept link row missing")
	}
}

func TestBriefCSVSkipsMetaWhenEmpty(t *testing.T) {
	doc := brief.DefaultDocument()
	payload := BriefCSV(doc)
	if strings.Contains(payload, MetaSectionTitle) {
		t.Fatal("empty meta must not emit the meta section")
	}
	records := splitCSVRecords(payload)
	if len(records) != 2 {
		t.Fatalf("record count = %d, want header + one room", len(records))
	}
}

func TestBriefCSVUsesRelabeledOther(t *testing.T) {
	doc := brief.DefaultDocument()
	doc.Meta.OtherLabel = "Высота окон (мм)"
	doc.Meta.OtherMm = "1400"
	if !strings.Contains(BriefCSV(doc), "Высота окон (мм);1400") {
		t.Fatal("relabeled meta row missing")
	}
}
