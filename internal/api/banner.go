package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
)

// Banner levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

const bannerTemplate = `<div class="alert alert-{{.Level}} alert-dismissible fade show" role="alert">` +
	`{{.Text}}` +
	`<button type="button" class="close" data-dismiss="alert" aria-label="Close">` +
	`<span aria-hidden="true">&times;</span></button></div>`

//nolint:gochecknoglobals // Parsed once; templates are safe for concurrent use.
var bannerTmpl = template.Must(template.New("banner").Parse(bannerTemplate))

// Banner is a dismissible alert shown above a page.
type Banner struct {
	Level string `json:"level" yaml:"level"`
	Text  string `json:"text"  yaml:"text"`
}

// LevelFor maps a response status to a banner level. Anything that is not
// success or warning is shown as danger.
func LevelFor(status string) string {
	switch status {
	case StatusSuccess:
		return LevelSuccess
	case StatusWarning:
		return LevelWarning
	default:
		return LevelDanger
	}
}

// BannerFromResponse shows the response message at the level of its status.
func BannerFromResponse(r *Response) Banner {
	return Banner{Level: LevelFor(r.Status), Text: r.Message}
}

// BannerFromError shows a failed request. Request errors read
// "Error: <status text> (<code>). <message>".
func BannerFromError(err error) Banner {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return Banner{
			Level: LevelDanger,
			Text:  fmt.Sprintf("Error: %s (%d). %s", reqErr.StatusText, reqErr.StatusCode, reqErr.Message),
		}
	}
	return Banner{Level: LevelDanger, Text: "Error: " + err.Error()}
}

// HTML renders the banner. Text is escaped.
func (b Banner) HTML() (safehtml.HTML, error) {
	return bannerTmpl.ExecuteToHTML(b)
}

// Render writes the banner HTML to w.
func (b Banner) Render(w io.Writer) error {
	return bannerTmpl.Execute(w, b)
}
