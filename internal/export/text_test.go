package export

import (
	"strings"
	"testing"

	"github.com/kapitan-marona/briefpro/internal/brief"
)

func TestBriefTextLayout(t *testing.T) {
	doc := brief.DefaultDocument()
	doc.RenameRoom(0, "Гостиная")
	walls := doc.Rooms[0].Cell("walls")
	walls.AppendText("бежевый")
	walls.AppendLink("https://mat.example", "краска")
	doc.Meta.CeilingsMm = "2700"

	text := BriefText(doc)
	for _, want := range []string{
		"Помещение: Гостиная",
		"Стены, цвет:",
		"- бежевый",
		"- краска: https://mat.example",
		MetaSectionTitle,
		"Высота потолков (мм): 2700",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text export missing %q:\n%s", want, text)
		}
	}
	// empty fields are not listed
	if strings.Contains(text, "Свет:") {
		t.Fatal("empty field leaked into the text export")
	}
}

func TestBriefTextUnnamedRoom(t *testing.T) {
	doc := brief.DefaultDocument()
	if !strings.Contains(BriefText(doc), "Помещение: (не указано)") {
		t.Fatal("unnamed room placeholder missing")
	}
}

func TestBriefHTMLXLS(t *testing.T) {
	doc := brief.DefaultDocument()
	doc.RenameRoom(0, "Кухня <spicy>")
	doc.Rooms[0].Cell("walls").AppendLink("https://vendor.example/tile", "")
	doc.Meta.ConceptLink = "https://concept.example"

	payload := BriefHTMLXLS(doc)
	if !strings.HasPrefix(payload, "\uFEFF") {
		t.Fatal("missing BOM")
	}
	if !strings.Contains(payload, "Кухня &lt;spicy&gt;") {
		t.Fatal("room name not escaped")
	}
	if !strings.Contains(payload, `href="https://vendor.example/tile"`) {
		t.Fatal("link anchor missing")
	}
	if !strings.Contains(payload, doc.Rooms[0].ColorTag) {
		t.Fatal("room fill color missing")
	}
	if !strings.Contains(payload, "https://concept.example") {
		t.Fatal("meta link missing")
	}
}
