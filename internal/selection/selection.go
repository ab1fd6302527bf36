// Package selection tracks the rooms checked for a bulk "update all" or
// "delete all" action on the room and user training pages.
package selection

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/lfs-lab/certtrack/internal/api"
)

// ErrEmpty is returned when submitting an empty selection.
var ErrEmpty = errors.New("no rooms selected")

// Item is what the confirmation list shows for one checked room.
type Item struct {
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Building string `json:"building"       yaml:"building"`
	Floor    string `json:"floor"          yaml:"floor"`
	Number   string `json:"number"         yaml:"number"`
}

// Line renders the item as "<user>: <building> <floor> - Room <number>".
// The user prefix is dropped when User is empty.
func (i Item) Line() string {
	line := fmt.Sprintf("%s %s - Room %s", i.Building, i.Floor, i.Number)
	if i.User == "" {
		return line
	}
	return i.User + ": " + line
}

// Candidate is one row that can be checked. Only new rows are picked by SelectAll.
type Candidate struct {
	ID    string
	Item  Item
	IsNew bool
}

// Poster sends a form to the tracker backend.
type Poster interface {
	PostForm(ctx context.Context, path string, form url.Values) (*api.Response, error)
}

// Set is the checked rooms keyed by room id.
type Set struct {
	order []string
	items map[string]Item
}

// New creates an empty selection.
func New() *Set {
	return &Set{items: make(map[string]Item)}
}

// Toggle checks or unchecks one room.
func (s *Set) Toggle(id string, item Item, checked bool) {
	if checked {
		if _, ok := s.items[id]; !ok {
			s.order = append(s.order, id)
		}
		s.items[id] = item
		return
	}
	s.remove(id)
}

// SelectAll applies the header checkbox to every candidate. Checking it picks
// only the new rows; unchecking it clears every candidate.
func (s *Set) SelectAll(candidates []Candidate, checked bool) {
	for _, c := range candidates {
		if !checked {
			s.remove(c.ID)
			continue
		}
		if c.IsNew {
			s.Toggle(c.ID, c.Item, true)
		}
	}
}

// Count returns the number of checked rooms.
func (s *Set) Count() int {
	return len(s.items)
}

// ButtonEnabled reports whether the bulk action button can be pressed.
func (s *Set) ButtonEnabled() bool {
	return s.Count() > 0
}

// Has reports whether id is checked.
func (s *Set) Has(id string) bool {
	_, ok := s.items[id]
	return ok
}

// IDs returns the checked ids: numeric ids ascending first, then the rest in
// the order they were checked.
func (s *Set) IDs() []string {
	var numeric, other []string
	for _, id := range s.order {
		if isIndex(id) {
			numeric = append(numeric, id)
		} else {
			other = append(other, id)
		}
	}
	sort.Slice(numeric, func(i, j int) bool {
		a, _ := strconv.ParseUint(numeric[i], 10, 64)
		b, _ := strconv.ParseUint(numeric[j], 10, 64)
		return a < b
	})
	return append(numeric, other...)
}

// Lines returns the confirmation list entries in IDs order.
func (s *Set) Lines() []string {
	ids := s.IDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id].Line())
	}
	return out
}

// Form returns the checked ids as the "rooms[]" form field.
func (s *Set) Form() url.Values {
	return url.Values{"rooms[]": s.IDs()}
}

// Submit posts the selection to path.
func (s *Set) Submit(ctx context.Context, p Poster, path string) (*api.Response, error) {
	if s.Count() == 0 {
		return nil, ErrEmpty
	}
	resp, err := p.PostForm(ctx, path, s.Form())
	if err != nil {
		return nil, fmt.Errorf("submitting %d rooms: %w", s.Count(), err)
	}
	return resp, nil
}

func (s *Set) remove(id string) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// isIndex reports whether id is a canonical non-negative integer such as "12"
// (no sign or leading zeros).
func isIndex(id string) bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	_, err := strconv.ParseUint(id, 10, 32)
	return err == nil
}
