package page

import "strings"

// ExtractField returns the line that follows the first line containing label.
// The label is matched as a plain, case-sensitive substring and the value is
// returned untrimmed. ok is false when p is nil, has no lines, lacks the label,
// or the label sits on the last line.
func ExtractField(p *Page, label string) (value string, ok bool) {
	if p == nil || len(p.Lines) == 0 {
		return "", false
	}
	for i, line := range p.Lines {
		if !strings.Contains(line, label) {
			continue
		}
		if i+1 >= len(p.Lines) {
			return "", false
		}
		return p.Lines[i+1], true
	}
	return "", false
}

// Field is a value extracted from one day's page.
type Field struct {
	Title   string
	Value   string
	Present bool
}

// Absent is the Field for a title whose value could not be found.
func Absent(title string) Field {
	return Field{Title: title}
}

// Extract runs ExtractField and wraps the result for title.
func Extract(title string, p *Page, label string) Field {
	v, ok := ExtractField(p, label)
	return Field{Title: title, Value: v, Present: ok}
}
