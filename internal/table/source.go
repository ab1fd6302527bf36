package table

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lfs-lab/certtrack/internal/logging"
)

// Source types.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Source errors.
var (
	ErrNoSourceName       = errors.New("table source requires a name")
	ErrUnknownSourceType  = errors.New("unknown table source type")
	ErrMissingSourceParam = errors.New("missing table source parameter")
	ErrDuplicateSource    = errors.New("duplicate table source name")
)

// Source describes where a table's rows come from.
type Source struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// CSV sources.
	Path      string `yaml:"path,omitempty"`
	NoHeader  bool   `yaml:"no_header,omitempty"`
	Delimiter string `yaml:"delimiter,omitempty"`

	// PostgreSQL sources.
	DSN   string `yaml:"dsn,omitempty"`
	Query string `yaml:"query,omitempty"`

	// IDColumn names the column used as Row.ID. Empty uses the row position.
	IDColumn string `yaml:"id_column,omitempty"`
}

// Validate checks that the parameters required by the source type are set.
func (s Source) Validate() error {
	if s.Name == "" {
		return ErrNoSourceName
	}
	switch s.Type {
	case SourceCSV, "":
		if s.Path == "" {
			return fmt.Errorf("%w: %s needs path", ErrMissingSourceParam, s.Name)
		}
	case SourcePostgres:
		if s.DSN == "" || s.Query == "" {
			return fmt.Errorf("%w: %s needs dsn and query", ErrMissingSourceParam, s.Name)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSourceType, s.Type)
	}
	return nil
}

// Load reads the table described by s.
func (s Source) Load(ctx context.Context) (*Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Type {
	case SourcePostgres:
		return LoadPostgres(ctx, s.Name, s.DSN, s.Query, s.IDColumn)
	default:
		return LoadCSV(s.Name, s.Path, CSVOptions{
			NoHeader:  s.NoHeader,
			Delimiter: s.Delimiter,
			IDColumn:  s.IDColumn,
		})
	}
}

// LoadAll loads every source concurrently and returns the tables keyed by name.
// Source names must be unique. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, sources []Source) (map[string]*Table, error) {
	log := logging.FromContext(ctx)

	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if _, dup := seen[src.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, src.Name)
		}
		seen[src.Name] = struct{}{}
	}

	var mu sync.Mutex
	tables := make(map[string]*Table, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, src := range sources {
		g.Go(func() error {
			t, err := src.Load(gCtx)
			if err != nil {
				return fmt.Errorf("loading table %s: %w", src.Name, err)
			}
			log.Debug().Ctx(gCtx).
				Str("component", "table").
				Str("operation", "load").
				Str("table", src.Name).
				Str("type", src.Type).
				Int("rows", t.Len()).
				Msg("table loaded")

			mu.Lock()
			tables[src.Name] = t
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
