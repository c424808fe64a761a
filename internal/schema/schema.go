// internal/schema/schema.go
//
// The shared field map for the brief: data keys, display labels and groups.
// This is the single source of truth for column order: the editor and both
// exporters iterate the same list. It must not carry any UI styling beyond
// the fixed column-width hints the exporters share.

package schema

// Group classifies a field for the grouped spreadsheet header.
type Group string

const (
	// GroupGeometry fields form the leading contiguous run merged under the
	// "Геометрия помещения" header in the XLSX export.
	GroupGeometry Group = "geometry"
	// GroupContent fields get plain vertically-merged headers.
	GroupContent Group = "content"
)

// Field describes one brief column.
type Field struct {
	Key             string
	Label           string
	Group           Group
	PlaceholderText string
	PlaceholderLink string
	// Width is the export column width in characters.
	Width int
}

// RoomColumnLabel heads the room-name column in every tabular export.
const RoomColumnLabel = "Наименование помещения"

// GeometryGroupLabel is the merged group-header title above the geometry run.
const GeometryGroupLabel = "Геометрия помещения"

var fields = []Field{
	{Key: "walls", Label: "Стены, цвет", Group: GroupGeometry, PlaceholderText: "Описание стен/цвета…", PlaceholderLink: "https://ссылка-на-материал", Width: 24},
	{Key: "floor", Label: "Пол", Group: GroupGeometry, PlaceholderText: "Описание пола…", PlaceholderLink: "https://ссылка-на-пол", Width: 20},
	{Key: "ceiling", Label: "Потолок", Group: GroupGeometry, PlaceholderText: "Описание потолка…", PlaceholderLink: "https://ссылка-на-потолок", Width: 20},
	{Key: "doors", Label: "Двери", Group: GroupGeometry, PlaceholderText: "Описание дверей…", PlaceholderLink: "https://ссылка-на-двери", Width: 20},
	{Key: "plinth", Label: "Плинтус, карниз", Group: GroupGeometry, PlaceholderText: "Плинтус/карниз…", PlaceholderLink: "https://ссылка-на-плинтус", Width: 20},
	{Key: "light", Label: "Свет", Group: GroupContent, PlaceholderText: "Сценарии/типы света…", PlaceholderLink: "https://ссылка-на-свет", Width: 18},
	{Key: "furniture", Label: "Мебель / Декор", Group: GroupContent, PlaceholderText: "Ключевая мебель/декор…", PlaceholderLink: "https://ссылка-на-мебель", Width: 22},
	{Key: "concept", Label: "Ссылка на концепт", Group: GroupContent, PlaceholderText: "Что важно из концепта…", PlaceholderLink: "https://ссылка-на-концепт", Width: 28},
	{Key: "notes", Label: "Допы к черновикам или примечания", Group: GroupContent, PlaceholderText: "Любые допы сюда…", PlaceholderLink: "https://доп-ссылка", Width: 40},
}

// Fields returns the ordered field registry. Callers must not mutate it.
func Fields() []Field {
	return fields
}

// Keys returns the field keys in registry order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// ByKey looks up a field definition.
func ByKey(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// GeometrySpan returns the length of the leading geometry run. The registry
// keeps geometry fields first; the spreadsheet header merge relies on that.
func GeometrySpan() int {
	span := 0
	for _, f := range fields {
		if f.Group != GroupGeometry {
			break
		}
		span++
	}
	return span
}
