package selection

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfs-lab/certtrack/internal/api"
)

func candidates() []Candidate {
	return []Candidate{
		{ID: "12", Item: Item{User: "alice", Building: "MCML", Floor: "1", Number: "101"}, IsNew: true},
		{ID: "3", Item: Item{User: "bob", Building: "MCML", Floor: "2", Number: "201"}, IsNew: false},
		{ID: "7", Item: Item{User: "carol", Building: "FSC", Floor: "1", Number: "110"}, IsNew: true},
	}
}

func TestItem_Line(t *testing.T) {
	assert.Equal(t, "alice: MCML 1 - Room 101", Item{User: "alice", Building: "MCML", Floor: "1", Number: "101"}.Line())
	assert.Equal(t, "MCML 1 - Room 101", Item{Building: "MCML", Floor: "1", Number: "101"}.Line())
}

func TestToggle(t *testing.T) {
	s := New()
	assert.False(t, s.ButtonEnabled())

	s.Toggle("3", candidates()[1].Item, true)
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.ButtonEnabled())
	assert.True(t, s.Has("3"))

	s.Toggle("3", Item{}, false)
	assert.Zero(t, s.Count())
	assert.False(t, s.ButtonEnabled())

	// Unchecking an unknown id is a no-op.
	s.Toggle("99", Item{}, false)
	assert.Zero(t, s.Count())
}

func TestSelectAll_OnlyNewRows(t *testing.T) {
	s := New()
	s.SelectAll(candidates(), true)

	assert.Equal(t, []string{"7", "12"}, s.IDs())
	assert.Equal(t, []string{"carol: FSC 1 - Room 110", "alice: MCML 1 - Room 101"}, s.Lines())
}

func TestSelectAll_UncheckClearsEverything(t *testing.T) {
	s := New()
	s.Toggle("3", candidates()[1].Item, true)
	s.SelectAll(candidates(), true)
	require.Equal(t, 3, s.Count())

	s.SelectAll(candidates(), false)
	assert.Zero(t, s.Count())
	assert.False(t, s.ButtonEnabled())
}

func TestIDs_NumericFirstThenInsertionOrder(t *testing.T) {
	s := New()
	for _, id := range []string{"b", "20", "a", "3", "007"} {
		s.Toggle(id, Item{}, true)
	}
	assert.Equal(t, []string{"3", "20", "b", "a", "007"}, s.IDs())
}

type fakePoster struct {
	form url.Values
	err  error
}

func (f *fakePoster) PostForm(_ context.Context, _ string, form url.Values) (*api.Response, error) {
	f.form = form
	if f.err != nil {
		return nil, f.err
	}
	return &api.Response{Status: api.StatusSuccess, Message: "Updated"}, nil
}

func TestSubmit(t *testing.T) {
	s := New()
	_, err := s.Submit(context.Background(), &fakePoster{}, "/rooms/update-all/")
	require.ErrorIs(t, err, ErrEmpty)

	s.SelectAll(candidates(), true)
	p := &fakePoster{}
	resp, err := s.Submit(context.Background(), p, "/rooms/update-all/")
	require.NoError(t, err)
	assert.Equal(t, "Updated", resp.Message)
	assert.Equal(t, []string{"7", "12"}, p.form["rooms[]"])

	boom := errors.New("boom")
	_, err = s.Submit(context.Background(), &fakePoster{err: boom}, "/x/")
	assert.ErrorIs(t, err, boom)
}
