package export

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfs-lab/certtrack/internal/api"
)

const reportName = "TRMS - Report - Missing Trainings"

func TestFilename(t *testing.T) {
	day := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "TRMS - Report - Missing Trainings 2024-03-05.csv", Filename(reportName, day))
}

func newServer(t *testing.T, code int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MCML", r.URL.Query().Get("building"))
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload_Success(t *testing.T) {
	srv := newServer(t, http.StatusOK, map[string]any{
		"status": "success",
		"data":   "user,training\nalice,WHMIS\n",
	})
	dir := filepath.Join(t.TempDir(), "reports")
	now := time.Date(2024, time.January, 9, 10, 0, 0, 0, time.Local)

	path, err := Download(context.Background(), api.NewClient(srv.URL, ""), Request{
		Path:   "/api/reports/missing/",
		Query:  url.Values{"building": {"MCML"}},
		Report: reportName,
		Dir:    dir,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, reportName+" 2024-01-09.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "user,training\nalice,WHMIS\n", string(data))
}

func TestDownload_NonSuccessStatus(t *testing.T) {
	srv := newServer(t, http.StatusOK, map[string]any{"status": "error", "message": "no data"})
	dir := t.TempDir()

	_, err := Download(context.Background(), api.NewClient(srv.URL, ""), Request{
		Path:   "/api/reports/missing/",
		Query:  url.Values{"building": {"MCML"}},
		Report: reportName,
		Dir:    dir,
	}, time.Now())
	require.ErrorIs(t, err, ErrReportFailed)
	assert.Equal(t, "An error occurred while downloading all data", err.Error())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownload_RequestError(t *testing.T) {
	srv := newServer(t, http.StatusBadRequest, map[string]any{"status": "error", "message": "Invalid filters"})

	_, err := Download(context.Background(), api.NewClient(srv.URL, ""), Request{
		Path:   "/api/reports/missing/",
		Query:  url.Values{"building": {"MCML"}},
		Report: reportName,
		Dir:    t.TempDir(),
	}, time.Now())

	var reqErr *api.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "Error: Bad Request (400). Invalid filters", api.BannerFromError(err).Text)
}

func TestDownload_InvalidReportName(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"status":"success","data":"x\n"}`))
	}))
	t.Cleanup(srv.Close)

	for _, name := range []string{"", "../evil", "reports/evil", `reports\evil`, "a..b"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := Download(context.Background(), api.NewClient(srv.URL, ""), Request{
				Path:   "/api/reports/missing/",
				Report: name,
				Dir:    filepath.Join(dir, "out"),
			}, time.Now())
			require.ErrorIs(t, err, ErrInvalidReportName)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
	assert.Zero(t, calls)
}
