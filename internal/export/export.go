// Package export downloads report CSVs from the tracker backend.
package export

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lfs-lab/certtrack/internal/api"
	"github.com/lfs-lab/certtrack/internal/logging"
)

// ErrReportFailed is returned when the backend answers without a success status.
var ErrReportFailed = errors.New("An error occurred while downloading all data") //nolint:staticcheck // Shown verbatim in the error banner.

// ErrInvalidReportName is returned when a report name would leave the output directory.
var ErrInvalidReportName = errors.New("invalid report name")

// Getter fetches a report from the tracker backend.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values) (*api.Response, error)
}

// Request describes one report download.
type Request struct {
	// Path is the report endpoint.
	Path string
	// Query is sent with the request, e.g. the current page filters.
	Query url.Values
	// Report names the file, e.g. "TRMS - Report - Missing Trainings".
	Report string
	// Dir is the directory the CSV is written to.
	Dir string
}

// Filename returns "<report> YYYY-MM-DD.csv" for the local date of t.
func Filename(report string, t time.Time) string {
	return fmt.Sprintf("%s %s.csv", report, t.Format(time.DateOnly))
}

// Download fetches the report and writes its CSV data to Dir, returning the
// file path. Request errors are returned as-is; nothing is retried.
func Download(ctx context.Context, g Getter, req Request, now time.Time) (string, error) {
	log := logging.FromContext(ctx)

	if err := validateReportName(req.Report); err != nil {
		return "", err
	}

	resp, err := g.Get(ctx, req.Path, req.Query)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		log.Warn().
			Str("component", "export").
			Str("operation", "download").
			Str("status", resp.Status).
			Str("message", resp.Message).
			Msg("report download failed")
		return "", ErrReportFailed
	}

	dir := req.Dir
	if dir == "" {
		dir = "."
	}
	if err = os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, Filename(req.Report, now))
	data := resp.DataString()
	if err = os.WriteFile(path, []byte(data), 0o600); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	log.Info().
		Str("component", "export").
		Str("operation", "download").
		Str("file", path).
		Int("bytes", len(data)).
		Msg("report downloaded")
	return path, nil
}

// validateReportName rejects names that are empty or carry path elements.
func validateReportName(name string) error {
	if strings.TrimSpace(name) == "" ||
		strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidReportName, name)
	}
	return nil
}
