// internal/brief/document.go
//
// The brief aggregate: an ordered list of rooms plus the project meta block.
// The document is owned by whoever loaded it and mutated in place through the
// methods here; every mutation path keeps the schema-completeness and
// room-count invariants intact.

package brief

import (
	"encoding/json"
	"strings"

	"github.com/kapitan-marona/briefpro/internal/schema"
)

// StorageKey is the fixed key the document is persisted under. It predates
// this codebase and must not change or existing briefs stop loading.
const StorageKey = "tpl:brief_visualizer_pro:v1"

// Document modes. Mode is pass-through state for the editor surface; the
// core never interprets it beyond defaulting.
const (
	ModeEdit = "edit"
	ModeView = "view"
)

// DefaultOtherLabel is the user-relabelable third height field.
const DefaultOtherLabel = "Прочее"

// Palette is the fixed cyclic set of room fill colors («RRGGBB»). A room is
// assigned palette[index%len] at creation and keeps that tag for life so it
// stays identifiable across the editor and the spreadsheet export.
var Palette = []string{
	"FFF2CC", // soft amber
	"DEEBF7", // pale blue
	"E2EFDA", // pale green
	"FCE4EC", // rose
	"EDE7F6", // lilac
	"FFE0B2", // apricot
	"E0F2F1", // mint
	"F5F5F5", // neutral grey
}

// PaletteColor returns the fill for a room created at the given index.
func PaletteColor(index int) string {
	if index < 0 {
		index = 0
	}
	return Palette[index%len(Palette)]
}

// Room is one row of the brief: a display name, a stable color tag and one
// cell per schema field.
type Room struct {
	Name     string
	ColorTag string
	Fields   map[string]*Cell
}

// Cell returns the cell for a schema key, creating an empty one on demand so
// rooms stored under an older schema never miss a slot.
func (r *Room) Cell(key string) *Cell {
	if r.Fields == nil {
		r.Fields = map[string]*Cell{}
	}
	cell, ok := r.Fields[key]
	if !ok || cell == nil {
		cell = &Cell{}
		cell.syncMirrors()
		r.Fields[key] = cell
	}
	return cell
}

// Span is the number of physical spreadsheet rows the room occupies: the
// largest non-empty block count across its fields, minimum one.
func (r *Room) Span() int {
	span := 1
	for _, key := range schema.Keys() {
		if n := len(r.Cell(key).ContentBlocks()); n > span {
			span = n
		}
	}
	return span
}

// MarshalJSON writes the room with its field cells at the top level, the
// layout every stored brief uses.
func (r Room) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"name":     r.Name,
		"colorTag": r.ColorTag,
	}
	for key, cell := range r.Fields {
		if cell != nil {
			out[key] = cell
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a stored room, normalizing every field cell.
func (r *Room) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Name = stringOf(raw["name"])
	r.ColorTag = stringOf(raw["colorTag"])
	r.Fields = map[string]*Cell{}
	for _, key := range schema.Keys() {
		cell := NormalizeCell(raw[key])
		r.Fields[key] = &cell
	}
	return nil
}

// Meta is the project-level singleton below the room table.
type Meta struct {
	SurveyPhotosLink string `json:"surveyPhotosLink"`
	LightDwg         string `json:"lightDwg"`
	FurniturePlanDwg string `json:"furniturePlanDwg"`
	DrawingsPdf      string `json:"drawingsPdf"`
	ConceptLink      string `json:"conceptLink"`
	Radiators        Cell   `json:"radiators"`
	CeilingsMm       string `json:"ceilingsMm"`
	DoorsMm          string `json:"doorsMm"`
	OtherMm          string `json:"otherMm"`
	OtherLabel       string `json:"otherLabel"`
}

// LinkField is one of the five single-value meta link slots.
type LinkField struct {
	Label string
	Value string
}

// LinkFields returns the non-structural meta link slots with their labels,
// in the order the exports list them.
func (m *Meta) LinkFields() []LinkField {
	return []LinkField{
		{Label: "Фото на замере (Google Drive)", Value: m.SurveyPhotosLink},
		{Label: "Ссылка на свет (DWG)", Value: m.LightDwg},
		{Label: "Ссылка на план мебели (DWG)", Value: m.FurniturePlanDwg},
		{Label: "Ссылка на чертежи (PDF)", Value: m.DrawingsPdf},
		{Label: "Ссылка на концепт", Value: m.ConceptLink},
	}
}

// ResolvedOtherLabel returns the user label for the third height field,
// falling back to the default when blank.
func (m *Meta) ResolvedOtherLabel() string {
	if label := strings.TrimSpace(m.OtherLabel); label != "" {
		return label
	}
	return DefaultOtherLabel
}

// Document is the root aggregate: all rooms plus project meta.
type Document struct {
	Mode  string `json:"mode"`
	Rooms []Room `json:"rooms"`
	Meta  Meta   `json:"meta"`
}

// DefaultRoom builds an empty room with one empty cell per schema field.
func DefaultRoom(colorTag string) Room {
	room := Room{ColorTag: colorTag, Fields: map[string]*Cell{}}
	for _, key := range schema.Keys() {
		room.Cell(key)
	}
	return room
}

// DefaultMeta builds the meta block with every value empty.
func DefaultMeta() Meta {
	m := Meta{OtherLabel: DefaultOtherLabel}
	m.Radiators.syncMirrors()
	return m
}

// DefaultDocument builds the initial state: edit mode, one empty room on the
// first palette color, empty meta.
func DefaultDocument() *Document {
	return &Document{
		Mode:  ModeEdit,
		Rooms: []Room{DefaultRoom(PaletteColor(0))},
		Meta:  DefaultMeta(),
	}
}

// Upgrade makes a loaded document schema complete: every room gets a cell
// for every current field, rooms without a color tag get one by palette
// cycle over their index (existing tags are never touched), meta gaps are
// filled with defaults, and an empty room list gets its mandatory first
// room back.
func (d *Document) Upgrade() {
	if strings.TrimSpace(d.Mode) == "" {
		d.Mode = ModeEdit
	}
	for i := range d.Rooms {
		room := &d.Rooms[i]
		for _, key := range schema.Keys() {
			room.Cell(key)
		}
		if strings.TrimSpace(room.ColorTag) == "" {
			room.ColorTag = PaletteColor(i)
		}
	}
	if len(d.Rooms) == 0 {
		d.Rooms = []Room{DefaultRoom(PaletteColor(0))}
	}
	if strings.TrimSpace(d.Meta.OtherLabel) == "" {
		d.Meta.OtherLabel = DefaultOtherLabel
	}
}

// AddRoom appends a fresh room on the next palette color and returns its
// index.
func (d *Document) AddRoom() int {
	d.Rooms = append(d.Rooms, DefaultRoom(PaletteColor(len(d.Rooms))))
	return len(d.Rooms) - 1
}

// DeleteRoom removes the room at index. A brief always has at least one
// room: deleting the last one leaves a fresh empty room in its place.
func (d *Document) DeleteRoom(index int) {
	if index < 0 || index >= len(d.Rooms) {
		return
	}
	d.Rooms = append(d.Rooms[:index], d.Rooms[index+1:]...)
	if len(d.Rooms) == 0 {
		d.Rooms = []Room{DefaultRoom(PaletteColor(0))}
	}
}

// RenameRoom sets the display name of the room at index.
func (d *Document) RenameRoom(index int, name string) {
	if index < 0 || index >= len(d.Rooms) {
		return
	}
	d.Rooms[index].Name = name
}

// LinkCount is the total number of non-blank link blocks across all rooms
// and fields plus the link-bearing meta entries. The LINKS sheet carries
// exactly this many data rows.
func (d *Document) LinkCount() int {
	count := 0
	for i := range d.Rooms {
		for _, key := range schema.Keys() {
			count += len(d.Rooms[i].Cell(key).LinkBlocks())
		}
	}
	for _, lf := range d.Meta.LinkFields() {
		if strings.TrimSpace(lf.Value) != "" {
			count++
		}
	}
	count += len(d.Meta.Radiators.LinkBlocks())
	return count
}
