// internal/tui/meta.go
//
// Panel for the document-level fields under the room grid: survey and
// drawing links, radiator notes, ceiling and door heights, and the
// relabelable extra height row.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kapitan-marona/briefpro/internal/brief"
)

type metaEntry struct {
	label string
	get   func() string
	set   func(string)
	// openCell routes the entry to the block editor instead of the
	// inline input; the radiators note holds a full cell with links.
	openCell bool
}

type metaPanel struct {
	doc     *brief.Document
	entries []metaEntry
	sel     int
	editing bool
	input   textinput.Model
}

func newMetaPanel(doc *brief.Document) *metaPanel {
	input := textinput.New()
	input.CharLimit = 2048

	meta := &doc.Meta
	entry := func(label string, get func() string, set func(string)) metaEntry {
		return metaEntry{label: label, get: get, set: set}
	}
	entries := []metaEntry{
		entry("Фото на замере (Google Drive)", func() string { return meta.SurveyPhotosLink }, func(v string) { meta.SurveyPhotosLink = v }),
		entry("Свет (DWG)", func() string { return meta.LightDwg }, func(v string) { meta.LightDwg = v }),
		entry("План меблировки (DWG)", func() string { return meta.FurniturePlanDwg }, func(v string) { meta.FurniturePlanDwg = v }),
		entry("Чертежи (PDF)", func() string { return meta.DrawingsPdf }, func(v string) { meta.DrawingsPdf = v }),
		entry("Концепция (ссылка)", func() string { return meta.ConceptLink }, func(v string) { meta.ConceptLink = v }),
		{label: "Радиаторы", get: func() string { return radiatorsSummary(meta) }, openCell: true},
		entry("Высота потолков (мм)", func() string { return meta.CeilingsMm }, func(v string) { meta.CeilingsMm = v }),
		entry("Высота дверей (мм)", func() string { return meta.DoorsMm }, func(v string) { meta.DoorsMm = v }),
	}
	entries = append(entries,
		entry(meta.ResolvedOtherLabel(), func() string { return meta.OtherMm }, func(v string) { meta.OtherMm = v }),
		entry("Название строки «Прочее»", func() string { return meta.OtherLabel }, func(v string) { meta.OtherLabel = v }),
	)

	return &metaPanel{doc: doc, entries: entries, input: input}
}

func radiatorsSummary(meta *brief.Meta) string {
	summary := ""
	if texts := meta.Radiators.TextBlocks(); len(texts) > 0 {
		summary = texts[0]
	}
	if links := len(meta.Radiators.LinkBlocks()); links > 0 {
		if summary == "" {
			return fmt.Sprintf("%d ссылок", links)
		}
		summary = fmt.Sprintf("%s (+%d ссылок)", summary, links)
	}
	return summary
}

// Update handles one message and reports completion and mutation, like
// the cell editor. openCell asks the caller to open the block editor for
// the selected entry.
func (p *metaPanel) Update(msg tea.Msg, editable bool) (done, mutated, openCell bool, cmd tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	if p.editing {
		if isKey {
			switch key.String() {
			case "enter":
				p.entries[p.sel].set(strings.TrimSpace(p.input.Value()))
				p.editing = false
				p.input.Blur()
				return false, true, false, nil
			case "esc":
				p.editing = false
				p.input.Blur()
				return false, false, false, nil
			}
		}
		var inputCmd tea.Cmd
		p.input, inputCmd = p.input.Update(msg)
		return false, false, false, inputCmd
	}

	if !isKey {
		return false, false, false, nil
	}
	switch key.String() {
	case "esc", "q":
		return true, false, false, nil
	case "up", "k":
		if p.sel > 0 {
			p.sel--
		}
	case "down", "j":
		if p.sel < len(p.entries)-1 {
			p.sel++
		}
	case "enter":
		if !editable {
			return false, false, false, nil
		}
		if p.entries[p.sel].openCell {
			return false, false, true, nil
		}
		p.editing = true
		p.input.Placeholder = p.entries[p.sel].label
		p.input.SetValue(p.entries[p.sel].get())
		p.input.CursorEnd()
		p.input.Focus()
		return false, false, false, textinput.Blink
	}
	return false, false, false, nil
}

func (p *metaPanel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("ФАЙЛЫ / ДОП. ИНФО")

	var rows []string
	for i, entry := range p.entries {
		marker := "  "
		value := entry.get()
		if value == "" {
			value = mutedStyle().Render("—")
		}
		if i == p.sel {
			marker = "▸ "
			if p.editing {
				value = p.input.View()
			}
		}
		line := fmt.Sprintf("%s%-32s %s", marker, entry.label, value)
		style := lipgloss.NewStyle()
		if i == p.sel && !p.editing {
			style = style.Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
		}
		rows = append(rows, style.Render(line))
	}

	hint := mutedStyle().MarginTop(1).Render("Enter править · Esc назад")
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"), hint)
}
