// internal/brief/cell.go
//
// The per-field value model: an ordered sequence of text and link blocks.
// Older documents stored cells as flat {text, links} pairs (or bare strings);
// all of that tolerance lives in NormalizeCell so the rest of the code only
// ever sees the canonical block form.

package brief

import (
	"encoding/json"
	"strconv"
	"strings"
)

// BlockKind tags a content block.
type BlockKind string

const (
	BlockText BlockKind = "text"
	BlockLink BlockKind = "link"
)

// Block is one atomic unit of a cell: a text note or a labeled hyperlink.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Value string    `json:"value"`
	// Label is an optional preset tag on link blocks (material/vendor name).
	Label string `json:"label,omitempty"`
}

// Cell holds the ordered blocks of one room field (or meta.radiators).
// Text and Links mirror the blocks for legacy readers; they are caches and
// are recomputed after every mutation, never edited directly.
type Cell struct {
	Blocks []Block  `json:"blocks"`
	Text   string   `json:"text"`
	Links  []string `json:"links"`
}

// IsEmpty reports whether the cell carries no content at all.
func (c *Cell) IsEmpty() bool {
	return c == nil || len(c.Blocks) == 0
}

// TextBlocks returns the non-blank text block values in order.
func (c *Cell) TextBlocks() []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, b := range c.Blocks {
		if b.Kind == BlockText && strings.TrimSpace(b.Value) != "" {
			out = append(out, b.Value)
		}
	}
	return out
}

// LinkBlocks returns the non-blank link blocks in order.
func (c *Cell) LinkBlocks() []Block {
	if c == nil {
		return nil
	}
	var out []Block
	for _, b := range c.Blocks {
		if b.Kind == BlockLink && strings.TrimSpace(b.Value) != "" {
			out = append(out, b)
		}
	}
	return out
}

// ContentBlocks returns the blocks that carry a non-blank value. The
// spreadsheet row span of a room is the max of this count over its fields.
func (c *Cell) ContentBlocks() []Block {
	if c == nil {
		return nil
	}
	var out []Block
	for _, b := range c.Blocks {
		if strings.TrimSpace(b.Value) != "" {
			out = append(out, b)
		}
	}
	return out
}

// AppendText adds a text block at the end and returns its index.
func (c *Cell) AppendText(value string) int {
	c.Blocks = append(c.Blocks, Block{Kind: BlockText, Value: value})
	c.syncMirrors()
	return len(c.Blocks) - 1
}

// AppendLink adds a link block at the end and returns its index.
func (c *Cell) AppendLink(url, label string) int {
	c.Blocks = append(c.Blocks, Block{Kind: BlockLink, Value: url, Label: label})
	c.syncMirrors()
	return len(c.Blocks) - 1
}

// SetBlock replaces the value of the block at index.
func (c *Cell) SetBlock(index int, value string) {
	if index < 0 || index >= len(c.Blocks) {
		return
	}
	c.Blocks[index].Value = value
	c.syncMirrors()
}

// SetBlockLabel replaces the optional label of a link block.
func (c *Cell) SetBlockLabel(index int, label string) {
	if index < 0 || index >= len(c.Blocks) || c.Blocks[index].Kind != BlockLink {
		return
	}
	c.Blocks[index].Label = label
	c.syncMirrors()
}

// RemoveBlock deletes the block at index, shifting the rest down.
func (c *Cell) RemoveBlock(index int) {
	if index < 0 || index >= len(c.Blocks) {
		return
	}
	c.Blocks = append(c.Blocks[:index], c.Blocks[index+1:]...)
	c.syncMirrors()
}

// syncMirrors recomputes the legacy text/links views from the blocks.
func (c *Cell) syncMirrors() {
	var texts []string
	var links []string
	for _, b := range c.Blocks {
		switch b.Kind {
		case BlockText:
			if strings.TrimSpace(b.Value) != "" {
				texts = append(texts, b.Value)
			}
		case BlockLink:
			if strings.TrimSpace(b.Value) != "" {
				links = append(links, b.Value)
			}
		}
	}
	c.Text = strings.Join(texts, "\n")
	c.Links = links
}

// NormalizeCell builds a canonical cell from any historical stored shape:
// nil, a bare scalar, a blocks array, or the flat {text, links} pair. It
// never fails: unrecognized input degrades to an empty cell.
func NormalizeCell(raw any) Cell {
	var c Cell
	switch v := raw.(type) {
	case nil:
		// empty
	case string:
		if strings.TrimSpace(v) != "" {
			c.Blocks = append(c.Blocks, Block{Kind: BlockText, Value: v})
		}
	case bool:
		c.Blocks = append(c.Blocks, Block{Kind: BlockText, Value: strconv.FormatBool(v)})
	case float64:
		c.Blocks = append(c.Blocks, Block{Kind: BlockText, Value: strconv.FormatFloat(v, 'f', -1, 64)})
	case int:
		c.Blocks = append(c.Blocks, Block{Kind: BlockText, Value: strconv.Itoa(v)})
	case map[string]any:
		c.Blocks = blocksFromMap(v)
	case Cell:
		c.Blocks = append(c.Blocks, v.Blocks...)
	case *Cell:
		if v != nil {
			c.Blocks = append(c.Blocks, v.Blocks...)
		}
	}
	c.syncMirrors()
	return c
}

// blocksFromMap reconstructs the block order from an object shape. When a
// well-formed blocks array is present it wins verbatim (minus junk entries);
// otherwise text items come first and links are appended after them. The
// original interleaving of a flat legacy cell is not recoverable, so this
// one-time lossy ordering is the migration policy.
func blocksFromMap(m map[string]any) []Block {
	if rawBlocks, ok := m["blocks"].([]any); ok {
		var blocks []Block
		for _, rb := range rawBlocks {
			entry, ok := rb.(map[string]any)
			if !ok {
				continue
			}
			kind := BlockKind(stringOf(entry["kind"]))
			if kind != BlockText && kind != BlockLink {
				continue
			}
			blocks = append(blocks, Block{
				Kind:  kind,
				Value: stringOf(entry["value"]),
				Label: stringOf(entry["label"]),
			})
		}
		return blocks
	}

	var blocks []Block
	if items, ok := m["textItems"].([]any); ok {
		for _, it := range items {
			if s := stringOf(it); s != "" {
				blocks = append(blocks, Block{Kind: BlockText, Value: s})
			}
		}
	} else if text := stringOf(m["text"]); strings.TrimSpace(text) != "" {
		blocks = append(blocks, Block{Kind: BlockText, Value: text})
	}
	for _, key := range []string{"links", "urls", "hrefs"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		for _, link := range stringSliceOf(raw) {
			blocks = append(blocks, Block{Kind: BlockLink, Value: link})
		}
	}
	return blocks
}

// UnmarshalJSON routes stored cells of any vintage through NormalizeCell.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		// A cell never fails to load; a corrupt one comes back empty.
		*c = NormalizeCell(nil)
		return nil
	}
	*c = NormalizeCell(raw)
	return nil
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func stringSliceOf(v any) []string {
	var out []string
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range s {
			if link := stringOf(item); strings.TrimSpace(link) != "" {
				out = append(out, link)
			}
		}
	}
	return out
}
