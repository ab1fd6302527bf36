package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/pager"
	"github.com/lfs-lab/certtrack/internal/selection"
	"github.com/lfs-lab/certtrack/internal/table"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		want        PromptResult
		wantPrompt  bool
	}{
		{name: "non-interactive", input: "y\n", interactive: false, want: PromptResult{}},
		{name: "yes", input: "y\n", interactive: true, want: PromptResult{Accepted: true}, wantPrompt: true},
		{name: "YES", input: " YES \n", interactive: true, want: PromptResult{Accepted: true}, wantPrompt: true},
		{name: "enter declines", input: "\n", interactive: true, want: PromptResult{}, wantPrompt: true},
		{name: "no", input: "n\n", interactive: true, want: PromptResult{}, wantPrompt: true},
		{name: "eof", input: "", interactive: true, want: PromptResult{}, wantPrompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(&out, strings.NewReader(tt.input), "Clear?", tt.interactive)
			assert.Equal(t, tt.want, got)
			if tt.wantPrompt {
				assert.Equal(t, "? Clear? [y/N] ", out.String())
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("closed") }

func TestConfirm_ReadError(t *testing.T) {
	got := Confirm(&bytes.Buffer{}, errReader{}, "Clear?", true)
	assert.True(t, got.Cancelled)
	assert.False(t, got.Accepted)
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", " yes ", "y", "New"} {
		assert.True(t, truthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "no", "old"} {
		assert.False(t, truthy(s), s)
	}
}

func TestCandidates(t *testing.T) {
	tbl := table.FromRecords("rooms", []string{"Room", "Floor", "Building"}, [][]string{
		{"201", "2", "MCML"},
		{"110", "1", "FNH"},
	}, 0)

	got, err := candidates(tbl, candidateColumns{
		User:     "user",
		Building: "building",
		Floor:    "floor",
		Number:   "room",
		New:      "new",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, selection.Item{Building: "MCML", Floor: "2", Number: "201"}, got[0].Item)
	assert.Equal(t, "201", got[0].ID)
	assert.False(t, got[0].IsNew)

	_, err = candidates(tbl, candidateColumns{Building: "building", Floor: "level", Number: "room"})
	require.Error(t, err)
}

func TestSummaryLine(t *testing.T) {
	assert.Equal(t, "Showing 1,001-1,010 of 12,345 rows (page 101 of 1,235)", summaryLine(pager.Meta{
		CurrentPage: 101,
		PageSize:    10,
		TotalPages:  1235,
		TotalItems:  12345,
		FirstItem:   1001,
		LastItem:    1010,
	}))
	assert.Equal(t, "Showing 0-0 of 0 rows (page 1 of 0)", summaryLine(pager.Meta{CurrentPage: 1, PageSize: 10}))
}

func TestParseMenuItem(t *testing.T) {
	assert.Equal(t, "All Users", parseMenuItem(" All Users ").Text)
	item := parseMenuItem("Training Records=/users/training-records/")
	assert.Equal(t, "Training Records", item.Text)
	assert.Equal(t, "/users/training-records/", item.Href)
}

func TestParseQuery(t *testing.T) {
	q, err := parseQuery([]string{"area=12", "area=13", "q=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "13"}, q["area"])
	assert.Equal(t, "a=b", q.Get("q"))

	_, err = parseQuery([]string{"area"})
	require.Error(t, err)
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{outputTable, outputJSON, outputYAML} {
		require.NoError(t, validateOutputFormat(f))
	}
	require.Error(t, validateOutputFormat("csv"))
}

func TestBuildServer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,alice\n2,bob\n3,carol\n"), 0o600))

	cfg := config.Defaults()
	cfg.Tables = []table.Source{{Name: "users", Path: path, IDColumn: "id"}}
	cfg.Pager.PageSizes = map[string]int{"users": 2}

	srv, err := buildServer(context.Background(), cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/tables/users?page=2", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Meta pager.Meta `json:"meta"`
			Rows []struct {
				ID string `json:"id"`
			} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 2, resp.Data.Meta.CurrentPage)
	assert.Equal(t, 2, resp.Data.Meta.TotalPages)
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, "3", resp.Data.Rows[0].ID)

	cfg.Tables = append(cfg.Tables, table.Source{Name: "rooms", Path: filepath.Join(dir, "missing.csv")})
	_, err = buildServer(context.Background(), cfg)
	require.Error(t, err)
}

func TestBrowse_NotTerminal(t *testing.T) {
	if isTerminal(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	cmd := newBrowseCmd()
	cmd.SetArgs([]string{"users"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.ErrorIs(t, err, ErrNotTerminal)
}
