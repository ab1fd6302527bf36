package pager

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfs-lab/certtrack/internal/filter"
	"github.com/lfs-lab/certtrack/internal/table"
)

// makeRows returns n rows whose second cell is "user<i>".
func makeRows(n int) []table.Row {
	rows := make([]table.Row, n)
	for i := range rows {
		rows[i] = table.Row{
			Index: i,
			ID:    fmt.Sprint(i + 1),
			Cells: []string{fmt.Sprint(i + 1), fmt.Sprintf("user%d", i)},
		}
	}
	return rows
}

func indexes(rows []table.Row) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Index)
	}
	return out
}

func newPager(t *testing.T, n, size int) *Pager {
	t.Helper()
	p, err := New(makeRows(n), size)
	require.NoError(t, err)
	return p
}

func TestNew_InvalidPageSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		_, err := New(makeRows(3), size)
		require.ErrorIs(t, err, ErrInvalidPageSize)
	}
}

func TestState_PageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{45, 20, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.size), func(t *testing.T) {
			s := State{CurrentPage: 1, PageSize: tt.size, TotalRows: tt.total}
			assert.Equal(t, tt.want, s.PageCount())
		})
	}
}

func TestPaginate_VisibleRowCount(t *testing.T) {
	for total := 0; total <= 50; total += 7 {
		for size := 1; size <= 12; size++ {
			p := newPager(t, total, size)
			pageCount := p.PageCount()
			require.Equal(t, (total+size-1)/size, pageCount)

			for page := 1; page <= pageCount; page++ {
				require.True(t, p.Goto(page))
				want := min(size, total-(page-1)*size)
				v := p.View()
				assert.Len(t, v.Rows, want, "total=%d size=%d page=%d", total, size, page)
				if len(v.Rows) > 0 {
					assert.Equal(t, (page-1)*size, v.Rows[0].Index)
				}
			}
		}
	}
}

func TestPaginate_FortyFiveRowsPageSizeTwenty(t *testing.T) {
	p := newPager(t, 45, 20)
	assert.Equal(t, 3, p.PageCount())

	v := p.View()
	assert.Len(t, v.Rows, 20)
	assert.False(t, v.Nav.First)
	assert.False(t, v.Nav.Prev)
	assert.True(t, v.Nav.Next)
	assert.True(t, v.Nav.Last)

	require.True(t, p.Last())
	v = p.View()
	assert.Equal(t, 3, v.State.CurrentPage)
	assert.Len(t, v.Rows, 5)
	assert.Equal(t, []int{40, 41, 42, 43, 44}, indexes(v.Rows))
	assert.True(t, v.Nav.First)
	assert.True(t, v.Nav.Prev)
	assert.False(t, v.Nav.Next)
	assert.False(t, v.Nav.Last)
}

func TestPaginate_ControlWindow(t *testing.T) {
	p := newPager(t, 200, 10)
	require.True(t, p.Goto(10))

	v := p.View()
	require.Len(t, v.Controls, 20)

	var visible, active []int
	for _, c := range v.Controls {
		if c.Visible {
			visible = append(visible, c.Number)
		}
		if c.Active {
			active = append(active, c.Number)
		}
	}
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12, 13}, visible)
	assert.Equal(t, []int{10}, active)
	assert.Len(t, v.VisibleControls(), 7)

	require.True(t, p.First())
	visible = visible[:0]
	for _, c := range p.View().VisibleControls() {
		visible = append(visible, c.Number)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, visible)
}

func TestPaginate_Empty(t *testing.T) {
	p := newPager(t, 0, 10)
	v := p.View()

	assert.Equal(t, 0, v.PageCount)
	assert.Empty(t, v.Controls)
	assert.Empty(t, v.Rows)
	assert.Equal(t, NavControls{}, v.Nav)
	assert.False(t, p.Next())
	assert.False(t, p.Last())
	assert.False(t, p.Goto(1))
}

func TestPaginate_PageOutsideRangeIsNotCorrected(t *testing.T) {
	p := newPager(t, 15, 10)

	p.Paginate(p.Rows(), 5)
	v := p.View()
	assert.Equal(t, 5, v.State.CurrentPage)
	assert.Empty(t, v.Rows)

	p.Paginate(p.Rows(), 0)
	assert.Empty(t, p.View().Rows)
}

func TestNavigation(t *testing.T) {
	p := newPager(t, 35, 10)

	assert.False(t, p.Prev())
	assert.False(t, p.First())

	require.True(t, p.Next())
	assert.Equal(t, 2, p.State().CurrentPage)
	require.True(t, p.Next())
	require.True(t, p.Next())
	assert.Equal(t, 4, p.State().CurrentPage)
	assert.False(t, p.Next())

	require.True(t, p.Prev())
	assert.Equal(t, 3, p.State().CurrentPage)
	require.True(t, p.First())
	assert.Equal(t, 1, p.State().CurrentPage)

	assert.False(t, p.Goto(5))
	assert.False(t, p.Goto(0))
	require.True(t, p.Goto(4))
	assert.Equal(t, []int{30, 31, 32, 33, 34}, indexes(p.View().Rows))
}

func TestFilter_ResetsToFirstPage(t *testing.T) {
	p := newPager(t, 100, 10)
	require.True(t, p.Goto(5))

	got := p.Filter(filter.Substring(1, "user1"))
	// user1, user10..user19
	assert.Len(t, got, 11)
	assert.Equal(t, 1, p.State().CurrentPage)
	assert.Equal(t, 2, p.PageCount())
	assert.Equal(t, 11, p.View().Total)
	assert.Equal(t, []int{1, 10, 11, 12, 13, 14, 15, 16, 17, 18}, indexes(p.View().Rows))
}

func TestFilter_KeepsOriginalOrder(t *testing.T) {
	p := newPager(t, 30, 50)
	got := p.Filter(func(r table.Row) bool { return r.Index%3 == 0 })
	assert.Equal(t, []int{0, 3, 6, 9, 12, 15, 18, 21, 24, 27}, indexes(got))
}

func TestFilter_Idempotent(t *testing.T) {
	p := newPager(t, 60, 10)
	pred := filter.Substring(1, "user2")

	first := p.Filter(pred)
	v1 := p.View()
	second := p.Filter(pred)
	v2 := p.View()

	assert.Equal(t, indexes(first), indexes(second))
	assert.Equal(t, v1, v2)
}

func TestFilter_NoResults(t *testing.T) {
	p, err := New(makeRows(25), 10, WithNoResultsMessage("No areas found"))
	require.NoError(t, err)

	got := p.Filter(filter.Substring(1, "nobody"))
	assert.Empty(t, got)

	v := p.View()
	assert.True(t, v.NoResults)
	assert.Equal(t, "No areas found", v.Message)
	assert.Empty(t, v.Controls)
	assert.Empty(t, v.Rows)
	assert.Equal(t, NavControls{}, v.Nav)

	// Filtering again replaces the placeholder instead of adding a second one.
	p.Filter(filter.Substring(1, "nobody"))
	assert.True(t, p.View().NoResults)

	p.Filter(filter.Substring(1, "user"))
	v = p.View()
	assert.False(t, v.NoResults)
	assert.Empty(t, v.Message)
	assert.Equal(t, 3, v.PageCount)
}

func TestFilter_EmptyQueryMatchesAll(t *testing.T) {
	p := newPager(t, 25, 10)
	p.Filter(filter.Substring(1, "user2"))
	require.Less(t, len(p.Rows()), 25)

	got := p.Filter(filter.Substring(1, ""))
	assert.Len(t, got, 25)
	got = p.Filter(nil)
	assert.Len(t, got, 25)
}

func TestFilter_AlwaysEvaluatesEveryRow(t *testing.T) {
	p := newPager(t, 20, 5)
	p.Filter(filter.Substring(1, "user1"))
	// A second, unrelated filter sees rows the first one hid.
	got := p.Filter(filter.Substring(1, "user2"))
	assert.Equal(t, []int{2}, indexes(got))
}

func TestReset(t *testing.T) {
	p := newPager(t, 20, 5)
	p.Filter(filter.Substring(1, "zzz"))
	p.Reset()
	assert.False(t, p.NoResults())
	assert.Len(t, p.Rows(), 20)
	assert.Equal(t, 4, p.PageCount())
}

func TestIsVisible(t *testing.T) {
	p := newPager(t, 25, 10)
	require.True(t, p.Next())
	assert.True(t, p.IsVisible(10))
	assert.True(t, p.IsVisible(19))
	assert.False(t, p.IsVisible(9))
	assert.False(t, p.IsVisible(20))
}

func TestView_IsACopy(t *testing.T) {
	p := newPager(t, 12, 5)
	v := p.View()
	v.Rows[0].ID = "changed"
	v.Controls[0].Active = false

	again := p.View()
	assert.Equal(t, "1", again.Rows[0].ID)
	assert.True(t, again.Controls[0].Active)
}

func TestView_Items(t *testing.T) {
	p := newPager(t, 45, 20)
	require.True(t, p.Last())
	v := p.View()
	assert.Equal(t, 41, v.FirstItem())
	assert.Equal(t, 45, v.LastItem())

	empty := newPager(t, 0, 20).View()
	assert.Zero(t, empty.FirstItem())
	assert.Zero(t, empty.LastItem())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)

	p, err := New(makeRows(5), 2, WithLogger(l))
	require.NoError(t, err)
	p.Filter(filter.RowText("user"))

	out := buf.String()
	assert.Contains(t, out, `"component":"pager"`)
	assert.Contains(t, out, `"operation":"paginate"`)
	assert.Contains(t, out, `"operation":"filter"`)
}
