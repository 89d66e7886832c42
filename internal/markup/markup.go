// Package markup renders page bodies in Scrapbox notation.
package markup

import (
	"fmt"
	"strings"
)

// Format is the notation applied to one line.
type Format string

const (
	Link           Format = "link"
	Strong         Format = "strong"
	Italic         Format = "italic"
	Strike         Format = "strike"
	Plain          Format = "plain"
	Indent         Format = "indent"
	NestedIndent   Format = "nested_indent"
	Checkbox       Format = "checkbox"
	NestedCheckbox Format = "nested_checkbox"
)

// Item is one line of a body.
type Item struct {
	Content string `yaml:"content"`
	Format  Format `yaml:"format"`
}

// Render formats a single item.
func (i Item) Render() (string, error) {
	switch i.Format {
	case Link:
		return "#" + i.Content, nil
	case Strong:
		return "[* " + i.Content + "]", nil
	case Italic:
		return "[/ " + i.Content + "]", nil
	case Strike:
		return "[- " + i.Content + "]", nil
	case Plain, "":
		return i.Content, nil
	case Indent:
		return " " + i.Content, nil
	case NestedIndent:
		return "  " + i.Content, nil
	case Checkbox:
		return " ⬜" + i.Content, nil
	case NestedCheckbox:
		return "  ⬜" + i.Content, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", i.Format)
	}
}

// Render joins the formatted items with newlines.
func Render(items []Item) (string, error) {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		line, err := item.Render()
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// Validate checks that every item uses a known format.
func Validate(items []Item) error {
	_, err := Render(items)
	return err
}
