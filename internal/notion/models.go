// Package notion renders wrapped-API response bodies as compact markdown.
// Decoding is a tagged-variant step keyed on the "object" discriminant;
// anything unrecognized falls back to pretty-printed JSON.
package notion

import "encoding/json"

// Envelope carries only the discriminant used to pick a variant.
type Envelope struct {
	Object string `json:"object"`
}

// List is the paginated envelope returned by list/search/children endpoints.
type List struct {
	Object  string            `json:"object"`
	Type    string            `json:"type"`
	Results []json.RawMessage `json:"results"`
	HasMore bool              `json:"has_more"`
}

// User is a workspace member or bot.
type User struct {
	Object string  `json:"object"`
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Person *Person `json:"person,omitempty"`
}

// Person holds person-type user detail.
type Person struct {
	Email string `json:"email"`
}

// Page is a page resource. Properties stay raw; the title-bearing property
// is located by its "title" type tag.
type Page struct {
	Object     string                     `json:"object"`
	ID         string                     `json:"id"`
	Icon       *Icon                      `json:"icon,omitempty"`
	Properties map[string]json.RawMessage `json:"properties"`
	URL        string                     `json:"url,omitempty"`
}

// Database is a database resource; its title is a rich text array.
type Database struct {
	Object string     `json:"object"`
	ID     string     `json:"id"`
	Icon   *Icon      `json:"icon,omitempty"`
	Title  []RichText `json:"title"`
}

// Icon is a page/database/callout icon.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// TitleProperty is the shape of a page's title-bearing property value.
type TitleProperty struct {
	Type  string     `json:"type"`
	Title []RichText `json:"title"`
}

// RichText is one inline text run with its annotation flags.
type RichText struct {
	Type        string       `json:"type"`
	PlainText   string       `json:"plain_text"`
	Href        string       `json:"href,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Mention     *Mention     `json:"mention,omitempty"`
}

// Annotations are the inline markup flags of one text run. The flags are
// independent and combinable.
type Annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Underline     bool `json:"underline"`
	Code          bool `json:"code"`
}

// TextContent holds the literal content and optional link of a text run.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is a hyperlink target.
type Link struct {
	URL string `json:"url"`
}

// Mention is a cross-reference to a page, database, user, or date.
type Mention struct {
	Type     string     `json:"type"`
	Page     *ObjectRef `json:"page,omitempty"`
	Database *ObjectRef `json:"database,omitempty"`
	User     *User      `json:"user,omitempty"`
}

// ObjectRef is a bare id reference used inside mentions.
type ObjectRef struct {
	ID string `json:"id"`
}
