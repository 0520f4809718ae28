package notion

import (
	"fmt"
	"strings"
)

// RenderRichText renders a rich text array with inline markup. Each run's
// annotation flags independently wrap the run; the markers nest, so the
// order they combine in does not matter.
func RenderRichText(runs []RichText) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(renderRun(run))
	}
	return sb.String()
}

func renderRun(run RichText) string {
	if run.Type == "mention" && run.Mention != nil {
		return renderMention(run)
	}

	content := run.PlainText
	if run.Text != nil {
		content = run.Text.Content
	}
	if content == "" {
		return ""
	}

	if a := run.Annotations; a != nil {
		if a.Code {
			content = "`" + content + "`"
		}
		if a.Bold {
			content = "**" + content + "**"
		}
		if a.Italic {
			content = "*" + content + "*"
		}
		if a.Strikethrough {
			content = "~~" + content + "~~"
		}
		if a.Underline {
			content = "<u>" + content + "</u>"
		}
	}

	if run.Text != nil && run.Text.Link != nil && run.Text.Link.URL != "" {
		content = fmt.Sprintf("[%s](%s)", content, run.Text.Link.URL)
	} else if run.Href != "" && run.Type != "mention" {
		content = fmt.Sprintf("[%s](%s)", content, run.Href)
	}

	return content
}

// renderMention renders a cross-reference mention as its plain text followed
// by a reference tag to the mentioned entity. Date mentions carry no entity
// id and render as plain text only.
func renderMention(run RichText) string {
	m := run.Mention
	switch m.Type {
	case "page":
		if m.Page != nil {
			return fmt.Sprintf("%s [page:%s]", run.PlainText, m.Page.ID)
		}
	case "database":
		if m.Database != nil {
			return fmt.Sprintf("%s [database:%s]", run.PlainText, m.Database.ID)
		}
	case "user":
		if m.User != nil {
			return fmt.Sprintf("%s [user:%s]", run.PlainText, m.User.ID)
		}
	}
	return run.PlainText
}

// plainText concatenates runs without markup, used for titles.
func plainText(runs []RichText) string {
	var sb strings.Builder
	for _, run := range runs {
		if run.Text != nil && run.Text.Content != "" {
			sb.WriteString(run.Text.Content)
		} else {
			sb.WriteString(run.PlainText)
		}
	}
	return sb.String()
}
