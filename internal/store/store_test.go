package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kapitan-marona/briefpro/internal/brief"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	s := New(t.TempDir())
	doc := s.Load()
	if len(doc.Rooms) != 1 {
		t.Fatalf("room count = %d, want 1", len(doc.Rooms))
	}
	if doc.Mode != brief.ModeEdit {
		t.Fatalf("mode = %q", doc.Mode)
	}
}

func TestLoadCorruptFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := New(dir).Load()
	if len(doc.Rooms) != 1 || doc.Rooms[0].Name != "" {
		t.Fatal("corrupt file must yield the default document")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir(), WithClock(fixedClock))

	doc := brief.DefaultDocument()
	idx := doc.AddRoom()
	doc.RenameRoom(idx, "Kitchen")
	walls := doc.Rooms[idx].Cell("walls")
	walls.AppendText("matte white")
	walls.AppendLink("https://vendor.example/tile", "")
	if err := s.Save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	back := s.Load()
	cell := back.Rooms[idx].Cell("walls")
	if len(cell.Blocks) != 2 {
		t.Fatalf("block count = %d, want 2", len(cell.Blocks))
	}
	if cell.Blocks[0].Value != "matte white" || cell.Blocks[1].Value != "https://vendor.example/tile" {
		t.Fatalf("blocks out of order: %#v", cell.Blocks)
	}
	if back.Rooms[idx].Name != "Kitchen" {
		t.Fatalf("room name = %q", back.Rooms[idx].Name)
	}
}

func TestSaveStampsStorageKey(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, WithClock(fixedClock))
	if err := s.Save(brief.DefaultDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), brief.StorageKey) {
		t.Fatal("stored document missing the fixed storage key")
	}
	if !strings.Contains(string(data), "2025-03-01T12:00:00Z") {
		t.Fatal("stored document missing the savedAt stamp")
	}
}

func TestLoadLegacyFlatDocument(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
		"key": "tpl:brief_visualizer_pro:v1",
		"mode": "view",
		"rooms": [
			{"name": "Спальня", "walls": {"text": "beige", "links": ["https://mat.example"]}}
		],
		"meta": {"radiators": "стальные панели", "ceilingsMm": "2700"}
	}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := New(dir).Load()
	if doc.Mode != brief.ModeView {
		t.Fatalf("mode = %q", doc.Mode)
	}
	walls := doc.Rooms[0].Cell("walls")
	if len(walls.Blocks) != 2 || walls.Blocks[0].Kind != brief.BlockText {
		t.Fatalf("legacy cell not reconstructed: %#v", walls.Blocks)
	}
	if doc.Rooms[0].ColorTag == "" {
		t.Fatal("upgrade did not assign a colorTag")
	}
	if doc.Meta.Radiators.Text != "стальные панели" {
		t.Fatalf("radiators = %q", doc.Meta.Radiators.Text)
	}
	if doc.Meta.CeilingsMm != "2700" {
		t.Fatalf("ceilingsMm = %q", doc.Meta.CeilingsMm)
	}
	if doc.Meta.OtherLabel != brief.DefaultOtherLabel {
		t.Fatal("meta defaults not merged")
	}
}
