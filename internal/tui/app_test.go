package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/config"
	"github.com/kapitan-marona/briefpro/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitBriefproDir(projectDir); err != nil {
		t.Fatalf("init briefpro dir: %v", err)
	}
	app, err := NewApp(projectDir)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	app, _ = press(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func press(t *testing.T, app *App, msg tea.Msg) (*App, tea.Cmd) {
	t.Helper()
	model, cmd := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return next, cmd
}

func pressKeys(t *testing.T, app *App, keys ...string) *App {
	t.Helper()
	for _, key := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		}
		app, _ = press(t, app, msg)
	}
	return app
}

func typeText(t *testing.T, app *App, text string) *App {
	t.Helper()
	for _, r := range text {
		app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return app
}

func TestAddRenameAndDeleteRoom(t *testing.T) {
	app := newTestApp(t)
	if len(app.Document().Rooms) != 1 {
		t.Fatalf("fresh document rooms = %d, want 1", len(app.Document().Rooms))
	}

	// "a" adds a room and drops straight into rename mode.
	app = pressKeys(t, app, "a")
	if len(app.Document().Rooms) != 2 {
		t.Fatalf("rooms after add = %d, want 2", len(app.Document().Rooms))
	}
	if !app.renaming {
		t.Fatal("add room should start rename")
	}
	app = typeText(t, app, "Кухня")
	app = pressKeys(t, app, "enter")
	if got := app.Document().Rooms[1].Name; got != "Кухня" {
		t.Fatalf("renamed room = %q, want Кухня", got)
	}

	app = pressKeys(t, app, "d")
	if len(app.Document().Rooms) != 1 {
		t.Fatalf("rooms after delete = %d, want 1", len(app.Document().Rooms))
	}

	// Deleting the last room resets it instead of leaving zero rooms.
	app = pressKeys(t, app, "d")
	if len(app.Document().Rooms) != 1 {
		t.Fatalf("rooms after deleting last = %d, want 1", len(app.Document().Rooms))
	}
}

func TestCellEditingPersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := config.InitBriefproDir(projectDir); err != nil {
		t.Fatal(err)
	}
	app, err := NewApp(projectDir)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	app, _ = press(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})

	// Open the first field of the first room and add a text block.
	app = pressKeys(t, app, "tab", "enter")
	if app.state != stateCell {
		t.Fatalf("state = %d, want cell editor", app.state)
	}
	app = pressKeys(t, app, "n")
	app = typeText(t, app, "краска, тёплый белый")
	app = pressKeys(t, app, "esc") // commit text
	app = pressKeys(t, app, "s")   // add a link
	app = typeText(t, app, "https://paint.example")
	app = pressKeys(t, app, "enter")
	app = pressKeys(t, app, "esc") // close the editor
	if app.state != stateGrid {
		t.Fatalf("state after close = %d, want grid", app.state)
	}

	cell := app.Document().Rooms[0].Cell("walls")
	if cell.Text != "краска, тёплый белый" {
		t.Fatalf("walls text = %q", cell.Text)
	}
	if len(cell.Links) != 1 || cell.Links[0] != "https://paint.example" {
		t.Fatalf("walls links = %v", cell.Links)
	}

	// Every mutation saved, so a fresh store sees the edits.
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatal(err)
	}
	reloaded := store.New(cfg.StateDir()).Load()
	if got := reloaded.Rooms[0].Cell("walls").Text; got != "краска, тёплый белый" {
		t.Fatalf("reloaded walls text = %q", got)
	}
}

func TestViewModeBlocksMutations(t *testing.T) {
	app := newTestApp(t)
	app = pressKeys(t, app, "v") // switch to view mode
	if app.Document().Mode != brief.ModeView {
		t.Fatalf("mode = %q, want view", app.Document().Mode)
	}
	app = pressKeys(t, app, "a")
	if len(app.Document().Rooms) != 1 {
		t.Fatal("view mode must not add rooms")
	}
	if !strings.Contains(app.statusMsg, "Режим просмотра") {
		t.Fatalf("status = %q, want view mode hint", app.statusMsg)
	}
	app = pressKeys(t, app, "v")
	if app.Document().Mode != brief.ModeEdit {
		t.Fatalf("mode = %q, want edit", app.Document().Mode)
	}
}

func TestMetaPanelEditing(t *testing.T) {
	app := newTestApp(t)
	app = pressKeys(t, app, "m")
	if app.state != stateMeta {
		t.Fatalf("state = %d, want meta", app.state)
	}
	// The seventh entry is the ceiling height.
	app = pressKeys(t, app, "down", "down", "down", "down", "down", "down", "enter")
	app = typeText(t, app, "2700")
	app = pressKeys(t, app, "enter", "esc")
	if app.state != stateGrid {
		t.Fatalf("state after esc = %d, want grid", app.state)
	}
	if got := app.Document().Meta.CeilingsMm; got != "2700" {
		t.Fatalf("ceilings = %q, want 2700", got)
	}
}

func TestMetaRadiatorsOpensBlockEditor(t *testing.T) {
	app := newTestApp(t)
	app = pressKeys(t, app, "m")
	// The sixth entry is the radiators cell.
	app = pressKeys(t, app, "down", "down", "down", "down", "down", "enter")
	if app.state != stateCell {
		t.Fatalf("state = %d, want block editor for radiators", app.state)
	}
	app = pressKeys(t, app, "s")
	app = typeText(t, app, "https://heat.example/rad")
	app = pressKeys(t, app, "enter")
	app = pressKeys(t, app, "esc")
	if app.state != stateMeta {
		t.Fatalf("state after closing editor = %d, want meta panel", app.state)
	}
	links := app.Document().Meta.Radiators.Links
	if len(links) != 1 || links[0] != "https://heat.example/rad" {
		t.Fatalf("radiator links = %v", links)
	}
	if app.Document().LinkCount() != 1 {
		t.Fatalf("link count = %d, want the radiator link", app.Document().LinkCount())
	}
	app = pressKeys(t, app, "esc")
	if app.state != stateGrid {
		t.Fatalf("state after leaving meta = %d, want grid", app.state)
	}
}

func TestExportMenuWritesFile(t *testing.T) {
	projectDir := t.TempDir()
	if err := config.InitBriefproDir(projectDir); err != nil {
		t.Fatal(err)
	}
	app, err := NewApp(projectDir)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	app, _ = press(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})

	app = pressKeys(t, app, "e")
	if app.state != stateExport {
		t.Fatalf("state = %d, want export menu", app.state)
	}
	// Second entry is CSV.
	app = pressKeys(t, app, "down")
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("export selection should return a command")
	}
	msg := cmd()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("message = %T, want exportDoneMsg", msg)
	}
	if done.err != nil {
		t.Fatalf("export error: %v", done.err)
	}
	if filepath.Ext(done.path) != ".csv" {
		t.Fatalf("export path = %s, want .csv", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	app, _ = press(t, app, done)
	if !strings.Contains(app.statusMsg, "Экспортировано") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestTemplateMenuAppliesPreset(t *testing.T) {
	projectDir := t.TempDir()
	if err := config.InitBriefproDir(projectDir); err != nil {
		t.Fatal(err)
	}
	tpl := "name: studio\nrooms:\n  - name: Студия\n  - name: Санузел\n"
	tplPath := filepath.Join(projectDir, config.BriefproDir, "templates", "studio.yaml")
	if err := os.WriteFile(tplPath, []byte(tpl), 0644); err != nil {
		t.Fatal(err)
	}
	app, err := NewApp(projectDir)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	app, _ = press(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})

	app = pressKeys(t, app, "t")
	if app.state != stateTemplate {
		t.Fatalf("state = %d, want template menu", app.state)
	}
	app = pressKeys(t, app, "enter")
	rooms := app.Document().Rooms
	if len(rooms) != 2 || rooms[0].Name != "Студия" || rooms[1].Name != "Санузел" {
		t.Fatalf("rooms after template = %+v", rooms)
	}
}
