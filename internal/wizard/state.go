package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Building is the selected building.
type Building struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Floor is the selected floor.
type Floor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is one selected room. Building and Floor hold the building code and
// floor name at the time the room was picked.
type Room struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
}

// Rooms is the selected room set keyed by "room_<id>". It keeps insertion
// order in memory and in its JSON object form.
type Rooms struct {
	keys  []string
	items map[string]Room
}

// RoomKey returns the key a room id is stored under.
func RoomKey(id string) string {
	return "room_" + id
}

// Len returns the number of selected rooms.
func (r Rooms) Len() int {
	return len(r.keys)
}

// Get returns the room stored under key.
func (r Rooms) Get(key string) (Room, bool) {
	room, ok := r.items[key]
	return room, ok
}

// Keys returns the room keys in insertion order.
func (r Rooms) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All returns the rooms in insertion order.
func (r Rooms) All() []Room {
	out := make([]Room, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.items[k])
	}
	return out
}

func (r *Rooms) put(key string, room Room) {
	if r.items == nil {
		r.items = make(map[string]Room)
	}
	if _, ok := r.items[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.items[key] = room
}

func (r *Rooms) remove(key string) bool {
	if _, ok := r.items[key]; !ok {
		return false
	}
	delete(r.items, key)
	keys := make([]string, 0, len(r.keys)-1)
	for _, k := range r.keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	r.keys = keys
	return true
}

// clone returns a copy that shares no storage with r.
func (r Rooms) clone() Rooms {
	out := Rooms{keys: make([]string, len(r.keys))}
	copy(out.keys, r.keys)
	if r.items != nil {
		out.items = make(map[string]Room, len(r.items))
		for k, v := range r.items {
			out.items[k] = v
		}
	}
	return out
}

// MarshalJSON writes the rooms as a JSON object in insertion order.
func (r Rooms) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the order its keys appear in.
func (r *Rooms) UnmarshalJSON(data []byte) error {
	*r = Rooms{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("rooms: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("rooms: expected key, got %v", tok)
		}
		var room Room
		if err = dec.Decode(&room); err != nil {
			return fmt.Errorf("rooms: decoding %s: %w", key, err)
		}
		r.put(key, room)
	}
	_, err = dec.Token()
	return err
}

// State is the persisted key request selection.
type State struct {
	Building Building `json:"building"`
	Floor    Floor    `json:"floor"`
	Rooms    Rooms    `json:"rooms"`
}

// IsZero reports whether nothing has been selected.
func (s *State) IsZero() bool {
	return s.Building == (Building{}) && s.Floor == (Floor{}) && s.Rooms.Len() == 0
}
