// internal/tui/grid.go
//
// Rendering for the main editing surface: a rooms panel on the left and
// the selected room's fields on the right. Room rows carry the same
// pastel fill the room gets in the exported workbook.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

const fieldPreviewRunes = 48

func (a *App) renderGrid(width int) string {
	leftWidth := max(26, width/3)
	rightWidth := width - leftWidth - 6
	if rightWidth < 30 {
		leftWidth = width - 4
		rightWidth = 0
	}

	leftBox := panelStyle(leftWidth).Render(a.renderRoomsPanel(leftWidth - 4))
	if rightWidth <= 0 {
		return leftBox
	}
	rightBox := panelStyle(rightWidth).Render(a.renderFieldsPanel(rightWidth - 4))
	return lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
}

func panelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width))
}

func (a *App) renderRoomsPanel(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Помещения (%d)", len(a.doc.Rooms)))

	var rows []string
	for i := range a.doc.Rooms {
		room := &a.doc.Rooms[i]
		selected := a.focus == focusRooms && i == a.roomSel

		name := room.Name
		if strings.TrimSpace(name) == "" {
			name = "(без названия)"
		}
		if a.renaming && i == a.roomSel {
			name = a.nameInput.View()
		}

		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color("#" + room.ColorTag)).
			Render("  ")
		line := fmt.Sprintf("%s %s · %d ссылок", swatch, name, roomLinkCount(room))

		style := lipgloss.NewStyle().Width(max(20, width))
		if selected {
			style = style.Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		rows = append(rows, style.Render(line))
	}

	hints := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("a добавить · d удалить · Enter переименовать\nm доп. инфо · t шаблоны · e экспорт · v режим")
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"), hints)
}

func (a *App) renderFieldsPanel(width int) string {
	room := &a.doc.Rooms[a.roomSel]
	name := room.Name
	if strings.TrimSpace(name) == "" {
		name = "(без названия)"
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("#" + room.ColorTag)).
		Foreground(lipgloss.Color("#333333")).
		Padding(0, 1).
		Render(name)

	var rows []string
	for i, field := range schema.Fields() {
		selected := a.focus == focusFields && i == a.fieldSel
		cell := room.Cell(field.Key)

		label := field.Label
		preview := cellPreview(cell)
		line := fmt.Sprintf("%-28s %s", label, preview)

		style := lipgloss.NewStyle().Width(max(20, width))
		if selected {
			style = style.Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		rows = append(rows, style.Render(line))
	}

	hints := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("Enter откроет редактор ячейки")
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"), hints)
}

func roomLinkCount(room *brief.Room) int {
	count := 0
	for _, field := range schema.Fields() {
		count += len(room.Cell(field.Key).LinkBlocks())
	}
	return count
}

// cellPreview compresses a cell into one short line for the grid.
func cellPreview(cell *brief.Cell) string {
	blocks := cell.ContentBlocks()
	if len(blocks) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render("—")
	}
	first := strings.SplitN(blocks[0].Value, "\n", 2)[0]
	if blocks[0].Kind == brief.BlockLink && blocks[0].Label != "" {
		first = blocks[0].Label
	}
	runes := []rune(first)
	if len(runes) > fieldPreviewRunes {
		first = string(runes[:fieldPreviewRunes-1]) + "…"
	}
	if len(blocks) > 1 {
		first = fmt.Sprintf("%s (+%d)", first, len(blocks)-1)
	}
	return first
}
