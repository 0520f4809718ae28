package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// blockHeader carries the block fields shared by every sub-type. The
// type-specific payload lives under a key named after the type itself.
type blockHeader struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Type   string `json:"type"`
}

type textPayload struct {
	RichText []RichText `json:"rich_text"`
}

type toDoPayload struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

type codePayload struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
	Caption  []RichText `json:"caption"`
}

type calloutPayload struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon"`
}

type childPayload struct {
	Title string `json:"title"`
}

type tablePayload struct {
	TableWidth int `json:"table_width"`
}

type tableRowPayload struct {
	Cells [][]RichText `json:"cells"`
}

// formatBlock renders one block at the given indentation depth, suffixed
// with its reference tag. Unknown sub-types render as a bracketed type label
// rather than failing.
func (f *Formatter) formatBlock(raw json.RawMessage, indent int) string {
	var header blockHeader
	if err := json.Unmarshal(raw, &header); err != nil || header.Type == "" {
		return prettyJSON(raw)
	}

	var payloads map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return prettyJSON(raw)
	}
	payload := payloads[header.Type]

	if header.Type != "numbered_list_item" {
		f.resetCountersBelow(indent)
	}

	prefix := strings.Repeat("  ", indent)
	tag := fmt.Sprintf("[block:%s]", header.ID)

	switch header.Type {
	case "paragraph":
		return prefix + joined(renderText(payload), tag)
	case "heading_1":
		return prefix + "# " + joined(renderText(payload), tag)
	case "heading_2":
		return prefix + "## " + joined(renderText(payload), tag)
	case "heading_3":
		return prefix + "### " + joined(renderText(payload), tag)
	case "bulleted_list_item":
		return prefix + "- " + joined(renderText(payload), tag)
	case "numbered_list_item":
		n := f.nextNumber(indent)
		return prefix + fmt.Sprintf("%d. ", n) + joined(renderText(payload), tag)
	case "to_do":
		var todo toDoPayload
		_ = json.Unmarshal(payload, &todo)
		mark := " "
		if todo.Checked {
			mark = "x"
		}
		return prefix + fmt.Sprintf("- [%s] ", mark) + joined(RenderRichText(todo.RichText), tag)
	case "code":
		return prefix + formatCode(payload, tag)
	case "quote":
		return prefix + "> " + joined(renderText(payload), tag)
	case "callout":
		var callout calloutPayload
		_ = json.Unmarshal(payload, &callout)
		icon := "💡"
		if callout.Icon != nil && callout.Icon.Emoji != "" {
			icon = callout.Icon.Emoji
		}
		return prefix + fmt.Sprintf("> %s ", icon) + joined(RenderRichText(callout.RichText), tag)
	case "toggle":
		return prefix + "▶ " + joined(renderText(payload), tag)
	case "divider":
		return prefix + "--- " + tag
	case "table":
		var table tablePayload
		_ = json.Unmarshal(payload, &table)
		if table.TableWidth > 0 {
			return prefix + fmt.Sprintf("[table (%d columns)] %s", table.TableWidth, tag)
		}
		return prefix + "[table] " + tag
	case "table_row":
		var row tableRowPayload
		_ = json.Unmarshal(payload, &row)
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, RenderRichText(cell))
		}
		return prefix + "| " + strings.Join(cells, " | ") + " | " + tag
	case "child_page":
		var child childPayload
		_ = json.Unmarshal(payload, &child)
		return prefix + fmt.Sprintf("%s %s [page:%s]", pageIcon, child.Title, header.ID)
	case "child_database":
		var child childPayload
		_ = json.Unmarshal(payload, &child)
		return prefix + fmt.Sprintf("%s %s [database:%s]", databaseIcon, child.Title, header.ID)
	default:
		return prefix + fmt.Sprintf("[%s] %s", header.Type, tag)
	}
}

// nextNumber advances the ordered-list counter at the given depth. Counters
// are keyed by indentation depth so nested numbered lists never share a
// counter with outer ones.
func (f *Formatter) nextNumber(indent int) int {
	f.counters[indent]++
	return f.counters[indent]
}

// resetCountersBelow restarts numbering at the given depth and deeper, so a
// numbered run interrupted by another block type starts over at 1.
func (f *Formatter) resetCountersBelow(indent int) {
	for depth := range f.counters {
		if depth >= indent {
			delete(f.counters, depth)
		}
	}
}

func formatCode(payload json.RawMessage, tag string) string {
	var code codePayload
	_ = json.Unmarshal(payload, &code)
	content := plainText(code.RichText)
	out := fmt.Sprintf("```%s\n%s\n```", code.Language, content)
	if caption := RenderRichText(code.Caption); caption != "" {
		out += "\n" + caption
	}
	return out + " " + tag
}

func renderText(payload json.RawMessage) string {
	var text textPayload
	_ = json.Unmarshal(payload, &text)
	return RenderRichText(text.RichText)
}

func joined(content, tag string) string {
	if content == "" {
		return tag
	}
	return content + " " + tag
}
