// Package menu works out which side menu entry belongs to the current page,
// and which table a tabbed page should open first.
package menu

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//nolint:gochecknoglobals // Compiled once.
var (
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9 -]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	hyphenRun        = regexp.MustCompile(`-+`)
)

// basicInfoTable is the tab that needs no table pager.
const basicInfoTable = "basic_info"

// Item is one side menu link.
type Item struct {
	Text   string `json:"text"   yaml:"text"`
	Href   string `json:"href"   yaml:"href"`
	Active bool   `json:"active" yaml:"active"`
}

// Slugify lowercases s, strips accents and anything outside [a-z0-9 -], and
// joins words with single hyphens: "Training  Records" becomes "training-records".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripMarks(s)
	s = invalidSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	return hyphenRun.ReplaceAllString(s, "-")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// PageName returns the second-to-last segment of a URL path, which is the page
// name for the tracker's trailing-slash URLs ("/users/all/" gives "all").
func PageName(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Active returns a copy of items with Active set on every entry whose slugified
// text matches the page name of path.
func Active(path string, items []Item) []Item {
	page := PageName(path)
	out := make([]Item, len(items))
	for i, it := range items {
		it.Active = page != "" && Slugify(it.Text) == page
		out[i] = it
	}
	return out
}

// TableFromURL returns the pager table id ("<t>-table-0") selected by the
// "t" query parameter of rawURL. The basic info tab has no table.
func TableFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	t := u.Query().Get("t")
	if t == "" || t == basicInfoTable {
		return "", false
	}
	return t + "-table-0", true
}
