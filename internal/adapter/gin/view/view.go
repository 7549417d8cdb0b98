// Package view renders the user admin screen.
package view

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	domain "user-admin/internal/domain/user"
	"user-admin/internal/usecase/createform"
	"user-admin/internal/usecase/userlist"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template names.
const (
	PageTemplate   = "page"
	ScreenTemplate = "screen"
)

// HTMXRequestHeader is set by htmx on every request it issues.
const HTMXRequestHeader = "HX-Request"

// Screen modes.
const (
	ModeLoading = "loading"
	ModeError   = "error"
	ModeGrid    = "grid"
)

// Templates parses the embedded templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(HTMXRequestHeader), "true")
}

// Header is one column header.
type Header struct {
	Label string
	Width int // percent of the table width
}

// Prompt is the delete confirmation dialog.
type Prompt struct {
	Open    bool
	Title   string
	Message string
}

// FormField is one input of the create modal.
type FormField struct {
	Name  string
	Label string
	Value string
}

// Form is the create-user modal.
type Form struct {
	Open   bool
	Error  string
	Fields []FormField
}

// Screen is everything the screen template renders.
type Screen struct {
	Mode         string
	ErrorMessage string
	Headers      []Header
	Grid         userlist.Grid
	Prompt       Prompt
	Form         Form
}

// NewScreen builds the view of a session from its list and form state.
func NewScreen(list userlist.State, prompt userlist.ConfirmPrompt, form createform.State) Screen {
	s := Screen{
		ErrorMessage: list.Error,
		Headers:      headers(),
		Grid:         userlist.BuildGrid(list),
		Prompt: Prompt{
			Open:    prompt.Open,
			Title:   prompt.Title,
			Message: prompt.Message,
		},
		Form: Form{
			Open:  form.Open,
			Error: form.Error,
		},
	}

	switch list.Mode() {
	case userlist.ModeLoading:
		s.Mode = ModeLoading
	case userlist.ModeError:
		s.Mode = ModeError
	default:
		s.Mode = ModeGrid
	}

	for _, name := range domain.Fields {
		s.Form.Fields = append(s.Form.Fields, FormField{
			Name:  name,
			Label: label(name),
			Value: form.Draft.Field(name),
		})
	}
	return s
}

func headers() []Header {
	var total float64
	for _, c := range userlist.Columns {
		total += c.Flex
	}

	out := make([]Header, len(userlist.Columns))
	for i, c := range userlist.Columns {
		out[i] = Header{Label: c.Header, Width: int(c.Flex / total * 100)}
	}
	return out
}

// label reuses the grid header of a field as its form label.
func label(field string) string {
	for _, c := range userlist.Columns {
		if c.Field == field {
			return c.Header
		}
	}
	return field
}
