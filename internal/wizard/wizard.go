// Package wizard keeps the state of the key request room picker: one building,
// one floor, and the set of rooms chosen across any number of floors.
//
// The state is written to a Store as JSON under SessionKey after every change,
// mirroring how the tracker's web page keeps it in session storage, so a CLI
// session can pick rooms over several invocations before posting them.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/lfs-lab/certtrack/internal/api"
)

// SessionKey is the store key holding the serialized State.
const SessionKey = "key-request-data"

// Selection errors.
var (
	ErrNoBuilding  = errors.New("select a building first")
	ErrNoFloor     = errors.New("select a building and a floor first")
	ErrMissingRoom = errors.New("room id and number are required")
	ErrNoRooms     = errors.New("no rooms selected")
	ErrNoRedirect  = errors.New("server did not return a next URL")
)

// Poster sends a form to the tracker backend.
type Poster interface {
	PostForm(ctx context.Context, path string, form url.Values) (*api.Response, error)
}

// Wizard is the room selection state bound to a store.
type Wizard struct {
	store Store
	state State
	log   zerolog.Logger
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLogger sets the logger used for state changes.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Wizard) { w.log = l.With().Str("component", "wizard").Logger() }
}

// Load restores the wizard from store, starting empty when nothing is saved.
func Load(store Store, opts ...Option) (*Wizard, error) {
	w := &Wizard{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}

	raw, ok, err := store.Get(SessionKey)
	if err != nil {
		return nil, fmt.Errorf("loading selection: %w", err)
	}
	if ok && raw != "" {
		if err = json.Unmarshal([]byte(raw), &w.state); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreCorrupted, err)
		}
	}
	return w, nil
}

// State returns a copy of the current selection.
func (w *Wizard) State() State {
	s := w.state
	s.Rooms = w.state.Rooms.clone()
	return s
}

// SelectBuilding selects a building and resets the floor. An empty id clears
// the stored selection entirely.
func (w *Wizard) SelectBuilding(b Building) error {
	if b.ID == "" {
		w.log.Debug().Str("operation", "select_building").Msg("building cleared")
		return w.Clear()
	}

	w.state.Building = b
	w.state.Floor = Floor{}
	w.log.Debug().
		Str("operation", "select_building").
		Str("building_id", b.ID).
		Str("building_code", b.Code).
		Msg("building selected")
	return w.save()
}

// SelectFloor selects a floor of the current building. An empty id, or no
// selected building, resets the floor; the latter also returns ErrNoBuilding.
func (w *Wizard) SelectFloor(f Floor) error {
	if w.state.Building.ID == "" || f.ID == "" {
		w.state.Floor = Floor{}
		if err := w.save(); err != nil {
			return err
		}
		if w.state.Building.ID == "" && f.ID != "" {
			return ErrNoBuilding
		}
		return nil
	}

	w.state.Floor = f
	w.log.Debug().
		Str("operation", "select_floor").
		Str("floor_id", f.ID).
		Msg("floor selected")
	return w.save()
}

// ToggleRoom adds the room when it is not selected and removes it otherwise.
// It reports whether the room is selected afterwards.
func (w *Wizard) ToggleRoom(id, number string) (bool, error) {
	if w.state.Building.Code == "" || w.state.Floor.Name == "" {
		return false, ErrNoFloor
	}
	if id == "" || number == "" {
		return false, ErrMissingRoom
	}

	key := RoomKey(id)
	if w.state.Rooms.remove(key) {
		w.log.Debug().Str("operation", "toggle_room").Str("room", key).Bool("selected", false).Msg("room toggled")
		return false, w.save()
	}

	w.state.Rooms.put(key, Room{
		ID:       id,
		Number:   number,
		Building: w.state.Building.Code,
		Floor:    w.state.Floor.Name,
	})
	w.log.Debug().Str("operation", "toggle_room").Str("room", key).Bool("selected", true).Msg("room toggled")
	return true, w.save()
}

// RemoveRoom drops the room stored under key ("room_<id>"). Unknown keys are ignored.
func (w *Wizard) RemoveRoom(key string) error {
	if !w.state.Rooms.remove(key) {
		return nil
	}
	return w.save()
}

// Clear forgets the whole selection and removes it from the store.
func (w *Wizard) Clear() error {
	w.state = State{}
	if err := w.store.Remove(SessionKey); err != nil {
		return fmt.Errorf("clearing selection: %w", err)
	}
	return nil
}

// RoomIDs returns the selected room ids in the order they were picked.
func (w *Wizard) RoomIDs() []string {
	rooms := w.state.Rooms.All()
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

// Continue posts the selected rooms with the next URL and returns the URL the
// server redirects to.
func (w *Wizard) Continue(ctx context.Context, p Poster, postURL, nextURL string) (string, error) {
	ids := w.RoomIDs()
	if len(ids) == 0 {
		return "", ErrNoRooms
	}

	form := url.Values{
		"rooms[]": ids,
		"next":    {nextURL},
	}
	resp, err := p.PostForm(ctx, postURL, form)
	if err != nil {
		return "", fmt.Errorf("submitting rooms: %w", err)
	}
	if resp.Next == "" {
		return "", ErrNoRedirect
	}

	w.log.Info().
		Str("operation", "continue").
		Int("rooms", len(ids)).
		Str("next", resp.Next).
		Msg("rooms submitted")
	return resp.Next, nil
}

func (w *Wizard) save() error {
	data, err := json.Marshal(w.state)
	if err != nil {
		return fmt.Errorf("marshaling selection: %w", err)
	}
	if err = w.store.Set(SessionKey, string(data)); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}
	return nil
}
