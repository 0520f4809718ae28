package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	pageIcon     = "📄"
	databaseIcon = "🗃️"
)

// Formatter renders response bodies as compact markdown. Ordered-list
// numbering is tracked per indentation depth and owned by one Formatter, so
// independent top-level renders never share counters.
type Formatter struct {
	counters map[int]int
}

// NewFormatter creates a formatter with fresh list counters.
func NewFormatter() *Formatter {
	return &Formatter{counters: make(map[int]int)}
}

// Reset clears the ordered-list counters. Called at the start of every
// top-level render.
func (f *Formatter) Reset() {
	f.counters = make(map[int]int)
}

// Format renders a raw response body. Dispatch is purely structural, keyed on
// the "object" discriminant; unrecognized shapes fall back to pretty-printed
// JSON so no information is ever lost.
func (f *Formatter) Format(raw []byte) string {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return prettyJSON(raw)
	}

	switch env.Object {
	case "user":
		var user User
		if err := json.Unmarshal(raw, &user); err != nil {
			return prettyJSON(raw)
		}
		return formatUser(&user)
	case "list":
		return f.formatList(raw)
	case "block":
		f.Reset()
		return f.formatBlock(raw, 0)
	default:
		return prettyJSON(raw)
	}
}

// formatList dispatches a list envelope by its item shape: users, search
// results (pages/databases), or block children.
func (f *Formatter) formatList(raw []byte) string {
	var list List
	if err := json.Unmarshal(raw, &list); err != nil {
		return prettyJSON(raw)
	}

	kind := list.Type
	if kind == "" && len(list.Results) > 0 {
		var item Envelope
		if json.Unmarshal(list.Results[0], &item) == nil {
			kind = item.Object
		}
	}

	switch kind {
	case "user":
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Found %d user(s)\n", len(list.Results)))
		for _, raw := range list.Results {
			var user User
			if err := json.Unmarshal(raw, &user); err != nil {
				continue
			}
			sb.WriteString(formatUser(&user))
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	case "block":
		f.Reset()
		var sb strings.Builder
		for _, item := range list.Results {
			sb.WriteString(f.formatBlock(item, 0))
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	case "page", "database", "page_or_database":
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Found %d result(s)\n", len(list.Results)))
		for _, item := range list.Results {
			sb.WriteString(formatSearchItem(item))
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	default:
		return prettyJSON(raw)
	}
}

// formatUser renders one line: display name, reference tag, and contact
// email when present.
func formatUser(u *User) string {
	name := u.Name
	if name == "" {
		name = "(unnamed)"
	}
	line := fmt.Sprintf("%s [user:%s]", name, u.ID)
	if u.Person != nil && u.Person.Email != "" {
		line += fmt.Sprintf(" (%s)", u.Person.Email)
	}
	return line
}

// formatSearchItem renders one search-result line with a resource icon,
// title, and reference tag.
func formatSearchItem(raw json.RawMessage) string {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return prettyJSON(raw)
	}

	switch env.Object {
	case "page":
		var page Page
		if err := json.Unmarshal(raw, &page); err != nil {
			return prettyJSON(raw)
		}
		icon := pageIcon
		if page.Icon != nil && page.Icon.Emoji != "" {
			icon = page.Icon.Emoji
		}
		return fmt.Sprintf("%s %s [page:%s]", icon, pageTitle(&page), page.ID)
	case "database":
		var db Database
		if err := json.Unmarshal(raw, &db); err != nil {
			return prettyJSON(raw)
		}
		icon := databaseIcon
		if db.Icon != nil && db.Icon.Emoji != "" {
			icon = db.Icon.Emoji
		}
		title := plainText(db.Title)
		if title == "" {
			title = "(untitled)"
		}
		return fmt.Sprintf("%s %s [database:%s]", icon, title, db.ID)
	default:
		var ref ObjectRef
		_ = json.Unmarshal(raw, &ref)
		return fmt.Sprintf("[%s] [%s:%s]", env.Object, env.Object, ref.ID)
	}
}

// pageTitle extracts the page title from its title-bearing property.
func pageTitle(page *Page) string {
	for _, raw := range page.Properties {
		var prop TitleProperty
		if err := json.Unmarshal(raw, &prop); err != nil {
			continue
		}
		if prop.Type == "title" {
			if title := plainText(prop.Title); title != "" {
				return title
			}
		}
	}
	return "(untitled)"
}

// prettyJSON is the universal fallback: pretty-printed serialization of the
// raw value. Never fails, never loses information.
func prettyJSON(raw []byte) string {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
