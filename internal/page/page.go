// Package page models a Scrapbox page as the journal sees it: an immutable,
// uniquely titled document inside a project.
package page

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound reports that a page does not exist in the project.
	ErrNotFound = errors.New("page not found")
	// ErrIncompletePayload reports a payload missing project, title or body.
	ErrIncompletePayload = errors.New("project name, title, and body must be provided")
)

// Page is a single record in a project. Pages read back from Scrapbox carry
// Lines; pages composed locally carry Body.
type Page struct {
	Project string
	Title   string
	Body    string
	Lines   []string
}

// New composes a page to be posted.
func New(project, title, body string) Page {
	return Page{Project: project, Title: title, Body: body}
}

// FromLines builds a page read back from the service.
func FromLines(project, title string, lines []string) Page {
	return Page{
		Project: project,
		Title:   title,
		Body:    strings.Join(lines, "\n"),
		Lines:   lines,
	}
}

// Payload is the serialized form handed to a repository.
type Payload struct {
	Project string
	Title   string
	Body    string
	Lines   []string
}

// NewPayload validates the required fields.
func NewPayload(project, title, body string, lines []string) (Payload, error) {
	if project == "" || title == "" || body == "" {
		return Payload{}, ErrIncompletePayload
	}
	return Payload{Project: project, Title: title, Body: body, Lines: lines}, nil
}

// Payload builds the serialized form of p.
func (p Page) Payload() (Payload, error) {
	return NewPayload(p.Project, p.Title, p.Body, p.Lines)
}
