// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for briefpro.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/config"
	"github.com/kapitan-marona/briefpro/internal/export"
	"github.com/kapitan-marona/briefpro/internal/logbook"
	"github.com/kapitan-marona/briefpro/internal/schema"
	"github.com/kapitan-marona/briefpro/internal/store"
	"github.com/kapitan-marona/briefpro/internal/template"
)

// appState represents which "screen" we're on
type appState int

const (
	stateGrid     appState = iota // Room/field grid, the main editing surface
	stateCell                     // Block editor for a single cell
	stateMeta                     // Project-level meta fields
	stateExport                   // Export format picker
	stateTemplate                 // Room template picker
)

type gridFocus int

const (
	focusRooms gridFocus = iota
	focusFields
)

// exportDoneMsg reports the outcome of a background export.
type exportDoneMsg struct {
	format   string
	path     string
	fallback bool
	err      error
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config  *config.Config
	store   *store.Store
	doc     *brief.Document
	logbook *logbook.Logbook

	state appState
	focus gridFocus

	roomSel  int
	fieldSel int

	editor *cellEditor
	meta   *metaPanel
	// cellReturn is the state the block editor closes back into: the
	// grid for room cells, the meta panel for the radiators entry.
	cellReturn appState

	exportMenu   list.Model
	templateMenu list.Model
	templates    []template.File

	renaming  bool
	nameInput textinput.Model

	statusMsg string
	width     int
	height    int
}

// menuItem implements list.Item for the export and template menus.
type menuItem struct {
	id    string
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp loads the persisted document and builds the editor model.
func NewApp(projectDir string) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	st := store.New(cfg.StateDir())
	doc := st.Load()

	lb, err := logbook.New(cfg.LogPath())
	if err == nil {
		lb.Info("Session opened · %d room(s), %d link(s)", len(doc.Rooms), doc.LinkCount())
	}

	exportMenu := list.New(exportMenuItems(), list.NewDefaultDelegate(), 0, 0)
	exportMenu.Title = "Export"
	exportMenu.SetShowStatusBar(false)
	exportMenu.SetFilteringEnabled(false)

	templateMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	templateMenu.Title = "Room Templates"
	templateMenu.SetShowStatusBar(false)
	templateMenu.SetFilteringEnabled(false)

	nameInput := textinput.New()
	nameInput.Placeholder = "Название помещения"
	nameInput.CharLimit = 120

	app := &App{
		config:       cfg,
		store:        st,
		doc:          doc,
		logbook:      lb,
		state:        stateGrid,
		focus:        focusRooms,
		exportMenu:   exportMenu,
		templateMenu: templateMenu,
		nameInput:    nameInput,
		statusMsg:    "Готово. Tab переключает панели, ? в подсказке снизу.",
	}
	app.refreshTemplateMenu()
	return app, nil
}

func exportMenuItems() []list.Item {
	return []list.Item{
		menuItem{id: "xlsx", title: "XLSX", desc: "Стилизованная книга (BRIEF + LINKS)"},
		menuItem{id: "csv", title: "CSV", desc: "Резервный формат, для таблиц"},
		menuItem{id: "txt", title: "Текст", desc: "Простой текстовый бриф"},
		menuItem{id: "xls", title: "XLS (HTML)", desc: "Совместимость со старым Excel"},
	}
}

func (a *App) refreshTemplateMenu() {
	files, err := template.LoadDir(a.config.TemplatesDir())
	if err != nil {
		a.logError("Templates unavailable: %v", err)
		files = nil
	}
	a.templates = files
	items := make([]list.Item, 0, len(files))
	for _, file := range files {
		desc := file.Template.Description
		if desc == "" {
			desc = fmt.Sprintf("%d помещений", len(file.Template.Rooms))
		}
		items = append(items, menuItem{id: file.Template.Name, title: file.Template.Name, desc: desc})
	}
	a.templateMenu.SetItems(items)
}

// Document exposes the edited document, mainly for tests.
func (a *App) Document() *brief.Document {
	return a.doc
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook != nil {
		a.logbook.Info(format, args...)
	}
}

func (a *App) logError(format string, args ...any) {
	if a.logbook != nil {
		a.logbook.Error(format, args...)
	}
}

// persist saves the document after every mutation so closing the terminal
// never loses edits.
func (a *App) persist(action string) {
	if err := a.store.Save(a.doc); err != nil {
		a.statusMsg = fmt.Sprintf("Ошибка сохранения: %v", err)
		a.logError("Save failed after %s: %v", action, err)
		return
	}
	a.logInfo("%s · saved", action)
}

func (a *App) editing() bool {
	return a.doc.Mode != brief.ModeView
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.exportMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		a.templateMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		if a.editor != nil {
			a.editor.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Экспорт %s не удался: %v", msg.format, msg.err)
			a.logError("Export %s failed: %v", msg.format, msg.err)
		} else if msg.fallback {
			a.statusMsg = fmt.Sprintf("XLSX недоступен, сохранён %s", filepath.Base(msg.path))
			a.logbook.Warn("XLSX export fell back to %s", msg.path)
		} else {
			a.statusMsg = fmt.Sprintf("Экспортировано: %s", filepath.Base(msg.path))
			a.logInfo("Exported %s to %s", msg.format, msg.path)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	switch a.state {
	case stateGrid:
		return a.updateGrid(msg)
	case stateCell:
		return a.updateCell(msg)
	case stateMeta:
		return a.updateMeta(msg)
	case stateExport:
		return a.updateExport(msg)
	case stateTemplate:
		return a.updateTemplate(msg)
	}
	return a, nil
}

func (a *App) updateGrid(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.renaming {
		return a.updateRename(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch key.String() {
	case "q":
		return a, tea.Quit
	case "tab", "right", "l":
		a.focus = focusFields
	case "left", "h":
		a.focus = focusRooms
	case "up", "k":
		if a.focus == focusRooms {
			if a.roomSel > 0 {
				a.roomSel--
			}
		} else if a.fieldSel > 0 {
			a.fieldSel--
		}
	case "down", "j":
		if a.focus == focusRooms {
			if a.roomSel < len(a.doc.Rooms)-1 {
				a.roomSel++
			}
		} else if a.fieldSel < len(schema.Fields())-1 {
			a.fieldSel++
		}
	case "enter":
		if a.focus == focusRooms {
			return a.beginRename()
		}
		return a.openCellEditor()
	case "a":
		if !a.editing() {
			a.statusMsg = modeViewHint
			return a, nil
		}
		idx := a.doc.AddRoom()
		a.roomSel = idx
		a.focus = focusRooms
		a.persist("Room added")
		return a.beginRename()
	case "d":
		if !a.editing() {
			a.statusMsg = modeViewHint
			return a, nil
		}
		if len(a.doc.Rooms) == 1 {
			a.statusMsg = "Последнее помещение очищено"
		} else {
			a.statusMsg = "Помещение удалено"
		}
		name := a.doc.Rooms[a.roomSel].Name
		a.doc.DeleteRoom(a.roomSel)
		if a.roomSel >= len(a.doc.Rooms) {
			a.roomSel = len(a.doc.Rooms) - 1
		}
		a.persist(fmt.Sprintf("Room %q deleted", name))
	case "m":
		a.meta = newMetaPanel(a.doc)
		a.state = stateMeta
		a.statusMsg = "Файлы и доп. инфо. Esc вернёт к таблице."
	case "e":
		a.state = stateExport
		a.statusMsg = "Выберите формат экспорта"
	case "t":
		if !a.editing() {
			a.statusMsg = modeViewHint
			return a, nil
		}
		a.refreshTemplateMenu()
		if len(a.templates) == 0 {
			a.statusMsg = fmt.Sprintf("Нет шаблонов в %s", a.config.TemplatesDir())
			return a, nil
		}
		a.state = stateTemplate
		a.statusMsg = "Выберите шаблон. Применение заменит все помещения!"
	case "v":
		if a.doc.Mode == brief.ModeView {
			a.doc.Mode = brief.ModeEdit
			a.statusMsg = "Режим редактирования"
		} else {
			a.doc.Mode = brief.ModeView
			a.statusMsg = "Режим просмотра, правки заблокированы"
		}
		a.persist("Mode toggled")
	}
	return a, nil
}

const modeViewHint = "Режим просмотра: нажмите v для редактирования"

func (a *App) beginRename() (tea.Model, tea.Cmd) {
	if !a.editing() {
		a.statusMsg = modeViewHint
		return a, nil
	}
	a.renaming = true
	a.nameInput.SetValue(a.doc.Rooms[a.roomSel].Name)
	a.nameInput.CursorEnd()
	a.nameInput.Focus()
	a.statusMsg = "Enter сохранит название, Esc отменит"
	return a, textinput.Blink
}

func (a *App) updateRename(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			a.doc.RenameRoom(a.roomSel, a.nameInput.Value())
			a.renaming = false
			a.nameInput.Blur()
			a.persist(fmt.Sprintf("Room renamed to %q", a.doc.Rooms[a.roomSel].Name))
			a.statusMsg = "Название сохранено"
			return a, nil
		case "esc":
			a.renaming = false
			a.nameInput.Blur()
			a.statusMsg = "Переименование отменено"
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

func (a *App) openCellEditor() (tea.Model, tea.Cmd) {
	field := schema.Fields()[a.fieldSel]
	a.editor = newCellEditor(a.doc, a.roomSel, field, a.editing())
	a.editor.setSize(a.width, a.height)
	a.cellReturn = stateGrid
	a.state = stateCell
	a.statusMsg = ""
	return a, nil
}

func (a *App) updateCell(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, mutated, cmd := a.editor.Update(msg)
	if mutated {
		a.persist(fmt.Sprintf("Cell %q edited", a.editor.title))
	}
	if done {
		a.state = a.cellReturn
		a.editor = nil
		a.statusMsg = "Ячейка закрыта"
	}
	return a, cmd
}

func (a *App) updateMeta(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, mutated, openCell, cmd := a.meta.Update(msg, a.editing())
	if mutated {
		a.persist("Meta edited")
	}
	if openCell {
		a.editor = newRadiatorsEditor(a.doc, a.editing())
		a.editor.setSize(a.width, a.height)
		a.cellReturn = stateMeta
		a.state = stateCell
		a.statusMsg = ""
		return a, nil
	}
	if done {
		a.state = stateGrid
		a.meta = nil
		a.statusMsg = "Готово"
	}
	return a, cmd
}

func (a *App) updateExport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			a.state = stateGrid
			a.statusMsg = "Экспорт отменён"
			return a, nil
		case "enter":
			item, ok := a.exportMenu.SelectedItem().(menuItem)
			if !ok {
				return a, nil
			}
			a.state = stateGrid
			a.statusMsg = "Экспортируем…"
			return a, a.runExport(item.id)
		}
	}
	var cmd tea.Cmd
	a.exportMenu, cmd = a.exportMenu.Update(msg)
	return a, cmd
}

func (a *App) runExport(format string) tea.Cmd {
	doc := a.doc
	dir := a.config.ExportsDir()
	base := a.config.ExportBaseName()
	return func() tea.Msg {
		path, fallback, err := exportDocument(doc, dir, base, format)
		return exportDoneMsg{format: format, path: path, fallback: fallback, err: err}
	}
}

// exportDocument writes one export file and returns its path. The xlsx
// format may fall back to the legacy HTML workbook when the writer fails.
func exportDocument(doc *brief.Document, dir, base, format string) (string, bool, error) {
	switch format {
	case "xlsx":
		return export.WriteWorkbookFile(doc, dir, base)
	case "csv":
		path := filepath.Join(dir, base+".csv")
		return path, false, export.WriteCSV(doc, path)
	case "txt":
		path := filepath.Join(dir, base+".txt")
		return path, false, export.WriteText(doc, path)
	case "xls":
		path := filepath.Join(dir, base+".xls")
		return path, false, export.WriteHTMLXLS(doc, path)
	}
	return "", false, fmt.Errorf("tui: unknown export format %q", format)
}

func (a *App) updateTemplate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			a.state = stateGrid
			a.statusMsg = "Шаблон не применён"
			return a, nil
		case "enter":
			item, ok := a.templateMenu.SelectedItem().(menuItem)
			if !ok {
				return a, nil
			}
			for _, file := range a.templates {
				if file.Template.Name != item.id {
					continue
				}
				file.Template.Apply(a.doc)
				a.roomSel = 0
				a.fieldSel = 0
				a.state = stateGrid
				a.persist(fmt.Sprintf("Template %q applied", item.id))
				a.statusMsg = fmt.Sprintf("Шаблон %s применён", item.id)
				return a, nil
			}
			a.statusMsg = "Шаблон не найден"
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.templateMenu, cmd = a.templateMenu.Update(msg)
	return a, cmd
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}

	var content string
	switch a.state {
	case stateGrid:
		content = a.renderGrid(width)
	case stateCell:
		content = a.editor.View()
	case stateMeta:
		content = a.meta.View()
	case stateExport:
		content = a.exportMenu.View()
	case stateTemplate:
		content = a.templateMenu.View()
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#D4956A")).
		MarginBottom(1).
		Render("◆ BRIEFPRO · ТЗ для визуализатора")

	sections := []string{header, content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(a.config.LogTail())
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.logbook.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
