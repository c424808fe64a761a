// internal/tui/editor.go
//
// Block editor for a single cell. A cell holds an ordered list of text
// and link blocks; the editor lets the user add, edit, relabel and
// remove them. Text blocks edit in a textarea, links in a textinput.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

type editorMode int

const (
	editorBrowse editorMode = iota // Navigating the block list
	editorText                     // Editing a text block in the textarea
	editorLink                     // Editing a link URL
	editorLabel                    // Editing a link label
)

// cellEditor edits any Cell through an accessor, so the same editor
// serves room fields and the radiators meta entry.
type cellEditor struct {
	cellFn   func() *brief.Cell
	title    string
	phText   string
	phLink   string
	editable bool

	sel  int
	mode editorMode

	area  textarea.Model
	input textinput.Model
}

func newBlockEditor(cellFn func() *brief.Cell, title, phText, phLink string, editable bool) *cellEditor {
	area := textarea.New()
	area.Placeholder = phText
	area.ShowLineNumbers = false

	input := textinput.New()
	input.CharLimit = 2048

	return &cellEditor{
		cellFn:   cellFn,
		title:    title,
		phText:   phText,
		phLink:   phLink,
		editable: editable,
		area:     area,
		input:    input,
	}
}

func newCellEditor(doc *brief.Document, room int, field schema.Field, editable bool) *cellEditor {
	name := strings.TrimSpace(doc.Rooms[room].Name)
	if name == "" {
		name = "(без названия)"
	}
	return newBlockEditor(
		func() *brief.Cell { return doc.Rooms[room].Cell(field.Key) },
		fmt.Sprintf("%s · %s", name, field.Label),
		field.PlaceholderText,
		field.PlaceholderLink,
		editable,
	)
}

func newRadiatorsEditor(doc *brief.Document, editable bool) *cellEditor {
	return newBlockEditor(
		func() *brief.Cell { return &doc.Meta.Radiators },
		"Радиаторы",
		"Модель/цвет радиаторов…",
		"https://ссылка-на-радиатор",
		editable,
	)
}

func (e *cellEditor) cell() *brief.Cell {
	return e.cellFn()
}

func (e *cellEditor) setSize(width, height int) {
	e.area.SetWidth(max(30, width-10))
	e.area.SetHeight(max(4, min(10, height-12)))
	e.input.Width = max(30, width-14)
}

// Update handles one message. It reports whether the editor is done and
// whether the document was mutated so the caller can persist.
func (e *cellEditor) Update(msg tea.Msg) (done, mutated bool, cmd tea.Cmd) {
	switch e.mode {
	case editorBrowse:
		return e.updateBrowse(msg)
	case editorText:
		return e.updateTextEdit(msg)
	case editorLink, editorLabel:
		return e.updateInputEdit(msg)
	}
	return false, false, nil
}

func (e *cellEditor) updateBrowse(msg tea.Msg) (bool, bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, false, nil
	}
	blocks := e.cell().Blocks

	switch key.String() {
	case "esc", "q":
		return true, false, nil
	case "up", "k":
		if e.sel > 0 {
			e.sel--
		}
	case "down", "j":
		if e.sel < len(blocks)-1 {
			e.sel++
		}
	case "enter":
		if !e.editable || len(blocks) == 0 {
			return false, false, nil
		}
		return false, false, e.beginEdit(blocks[e.sel])
	case "n":
		if !e.editable {
			return false, false, nil
		}
		e.sel = e.cell().AppendText("")
		return false, false, e.beginEdit(e.cell().Blocks[e.sel])
	case "s":
		if !e.editable {
			return false, false, nil
		}
		e.sel = e.cell().AppendLink("", "")
		return false, false, e.beginEdit(e.cell().Blocks[e.sel])
	case "p":
		if !e.editable || len(blocks) == 0 || blocks[e.sel].Kind != brief.BlockLink {
			return false, false, nil
		}
		e.mode = editorLabel
		e.input.Placeholder = "Подпись к ссылке"
		e.input.SetValue(blocks[e.sel].Label)
		e.input.CursorEnd()
		e.input.Focus()
		return false, false, textinput.Blink
	case "x", "backspace":
		if !e.editable || len(blocks) == 0 {
			return false, false, nil
		}
		e.cell().RemoveBlock(e.sel)
		if e.sel >= len(e.cell().Blocks) && e.sel > 0 {
			e.sel--
		}
		return false, true, nil
	}
	return false, false, nil
}

func (e *cellEditor) beginEdit(block brief.Block) tea.Cmd {
	if block.Kind == brief.BlockText {
		e.mode = editorText
		e.area.SetValue(block.Value)
		e.area.Focus()
		return textarea.Blink
	}
	e.mode = editorLink
	e.input.Placeholder = e.phLink
	e.input.SetValue(block.Value)
	e.input.CursorEnd()
	e.input.Focus()
	return textinput.Blink
}

func (e *cellEditor) updateTextEdit(msg tea.Msg) (bool, bool, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		e.cell().SetBlock(e.sel, e.area.Value())
		e.area.Blur()
		e.mode = editorBrowse
		return false, true, nil
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return false, false, cmd
}

func (e *cellEditor) updateInputEdit(msg tea.Msg) (bool, bool, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if e.mode == editorLabel {
				e.cell().SetBlockLabel(e.sel, e.input.Value())
			} else {
				e.cell().SetBlock(e.sel, e.input.Value())
			}
			e.input.Blur()
			e.mode = editorBrowse
			return false, true, nil
		case "esc":
			e.input.Blur()
			e.mode = editorBrowse
			return false, false, nil
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return false, false, cmd
}

func (e *cellEditor) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(e.title)

	switch e.mode {
	case editorText:
		hint := mutedStyle().Render("Esc сохранит текст")
		return lipgloss.JoinVertical(lipgloss.Left, title, e.area.View(), hint)
	case editorLink:
		hint := mutedStyle().Render("Enter сохранит ссылку, Esc отменит")
		return lipgloss.JoinVertical(lipgloss.Left, title, e.input.View(), hint)
	case editorLabel:
		hint := mutedStyle().Render("Enter сохранит подпись, Esc отменит")
		return lipgloss.JoinVertical(lipgloss.Left, title, e.input.View(), hint)
	}

	blocks := e.cell().Blocks
	var rows []string
	if len(blocks) == 0 {
		rows = append(rows, mutedStyle().Render("Ячейка пуста"))
	}
	for i, block := range blocks {
		marker := "  "
		if i == e.sel {
			marker = "▸ "
		}
		kind := "текст"
		value := strings.SplitN(block.Value, "\n", 2)[0]
		if block.Kind == brief.BlockLink {
			kind = "ссылка"
			if block.Label != "" {
				value = fmt.Sprintf("%s → %s", block.Label, block.Value)
			}
		}
		line := fmt.Sprintf("%s[%s] %s", marker, kind, value)
		style := lipgloss.NewStyle()
		if i == e.sel {
			style = style.Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
		}
		rows = append(rows, style.Render(line))
	}

	hints := "n текст · s ссылка · p подпись · Enter править · x удалить · Esc назад"
	if !e.editable {
		hints = "Режим просмотра · Esc назад"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(rows, "\n"),
		mutedStyle().MarginTop(1).Render(hints),
	)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
