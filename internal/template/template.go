// internal/template/template.go
//
// Room preset templates. A template is a YAML file under
// .briefpro/templates/ describing a set of pre-named rooms with optional
// starter field content. Applying one replaces the document's rooms so a
// designer can start a brief from a familiar apartment layout.

package template

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

// RoomPreset describes one room the template creates. Field values pass
// through the same normalization as persisted cells, so a preset may use a
// plain string or a {text, links} mapping.
type RoomPreset struct {
	Name   string         `yaml:"name"`
	Fields map[string]any `yaml:"fields,omitempty"`
}

// Template models one .briefpro/templates/*.yaml file.
type Template struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	OtherLabel  string            `yaml:"other_label,omitempty"`
	Rooms       []RoomPreset      `yaml:"rooms"`
	Meta        map[string]string `yaml:"meta,omitempty"`
}

// File pairs a parsed template with its on-disk source.
type File struct {
	Template Template
	Path     string
}

// Normalized returns a trimmed copy of the template.
func (t Template) Normalized() Template {
	clone := Template{
		Name:        strings.TrimSpace(t.Name),
		Description: strings.TrimSpace(t.Description),
		OtherLabel:  strings.TrimSpace(t.OtherLabel),
	}
	if len(t.Rooms) > 0 {
		clone.Rooms = make([]RoomPreset, len(t.Rooms))
		for i, room := range t.Rooms {
			clone.Rooms[i] = RoomPreset{
				Name:   strings.TrimSpace(room.Name),
				Fields: room.Fields,
			}
		}
	}
	if len(t.Meta) > 0 {
		clone.Meta = make(map[string]string, len(t.Meta))
		for key, value := range t.Meta {
			trimmed := strings.TrimSpace(key)
			if trimmed == "" {
				continue
			}
			clone.Meta[trimmed] = strings.TrimSpace(value)
		}
	}
	return clone
}

// Validate ensures the template is well-formed and only references known
// field keys.
func (t Template) Validate() error {
	normalized := t.Normalized()
	if normalized.Name == "" {
		return fmt.Errorf("template: name is required")
	}
	if len(normalized.Rooms) == 0 {
		return fmt.Errorf("template %s: at least one room is required", normalized.Name)
	}
	for i, room := range normalized.Rooms {
		if room.Name == "" {
			return fmt.Errorf("template %s: rooms[%d]: name is required", normalized.Name, i)
		}
		for key := range room.Fields {
			if _, ok := schema.ByKey(key); !ok {
				return fmt.Errorf("template %s: rooms[%d]: unknown field %q", normalized.Name, i, key)
			}
		}
	}
	for key := range normalized.Meta {
		if !isMetaKey(key) {
			return fmt.Errorf("template %s: unknown meta key %q", normalized.Name, key)
		}
	}
	return nil
}

// Apply replaces the document's rooms with the template's presets and fills
// in any meta values the template carries. Room colors follow the same
// palette rotation as manually added rooms.
func (t Template) Apply(doc *brief.Document) {
	normalized := t.Normalized()
	rooms := make([]brief.Room, 0, len(normalized.Rooms))
	for i, preset := range normalized.Rooms {
		room := brief.Room{
			Name:     preset.Name,
			ColorTag: brief.PaletteColor(i),
			Fields:   map[string]*brief.Cell{},
		}
		for key, raw := range preset.Fields {
			cell := brief.NormalizeCell(raw)
			room.Fields[key] = &cell
		}
		rooms = append(rooms, room)
	}
	doc.Rooms = rooms

	if normalized.OtherLabel != "" {
		doc.Meta.OtherLabel = normalized.OtherLabel
	}
	for key, value := range normalized.Meta {
		applyMeta(&doc.Meta, key, value)
	}
	doc.Upgrade()
}

// Parse decodes and validates a single template payload.
func Parse(data []byte) (Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Template{}, fmt.Errorf("template: payload is empty")
	}
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("template: decode: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t.Normalized(), nil
}

// LoadFile reads a YAML file from disk and returns the parsed template.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("template: read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("template: %s: %w", path, err)
	}
	return File{Template: t, Path: filepath.Clean(path)}, nil
}

// LoadDir scans a directory for *.yaml templates and returns them sorted by
// name. A missing directory means "no templates", not an error.
func LoadDir(dir string) ([]File, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("template: read %s: %w", trimmed, err)
	}
	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		file, err := LoadFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Template.Name < files[j].Template.Name
	})
	return files, nil
}

// Find returns the template with the given name from dir.
func Find(dir, name string) (Template, error) {
	files, err := LoadDir(dir)
	if err != nil {
		return Template{}, err
	}
	for _, file := range files {
		if file.Template.Name == name {
			return file.Template, nil
		}
	}
	return Template{}, fmt.Errorf("template: %q not found in %s", name, dir)
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

func isMetaKey(key string) bool {
	switch key {
	case "ceilings_mm", "doors_mm", "other_mm",
		"survey_photos_link", "light_dwg", "furniture_plan_dwg",
		"drawings_pdf", "concept_link":
		return true
	}
	return false
}

func applyMeta(meta *brief.Meta, key, value string) {
	switch key {
	case "ceilings_mm":
		meta.CeilingsMm = value
	case "doors_mm":
		meta.DoorsMm = value
	case "other_mm":
		meta.OtherMm = value
	case "survey_photos_link":
		meta.SurveyPhotosLink = value
	case "light_dwg":
		meta.LightDwg = value
	case "furniture_plan_dwg":
		meta.FurniturePlanDwg = value
	case "drawings_pdf":
		meta.DrawingsPdf = value
	case "concept_link":
		meta.ConceptLink = value
	}
}
