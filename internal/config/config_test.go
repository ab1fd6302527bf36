package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/logging"
	"github.com/lfs-lab/certtrack/internal/table"
)

// isolateHome points HOME and CERTTRACK_* at a temp dir so tests never read
// the developer's own config.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CERTTRACK_CONFIG", "")
	t.Setenv("CERTTRACK_PROJECT_DIR", "")
	t.Setenv("CERTTRACK_LOG_LEVEL", "")
	t.Setenv("CERTTRACK_API_URL", "")
	t.Setenv("CERTTRACK_CSRF_TOKEN", "")
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg := config.Defaults()
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultPageSize, cfg.Pager.DefaultPageSize)
	assert.Equal(t, 20, cfg.PageSizeFor("rooms"))
	assert.Equal(t, 10, cfg.PageSizeFor("users"))
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, filepath.Join(home, ".certtrack", "session.json"), cfg.Session.File)

	report, ok := cfg.Report(config.MissingTrainingsReport)
	require.True(t, ok)
	assert.Equal(t, "TRMS - Report - Missing Trainings", report.Name)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("CERTTRACK_LOG_LEVEL", "debug")
	t.Setenv("CERTTRACK_API_URL", "https://tracker.example.org")
	t.Setenv("CERTTRACK_CSRF_TOKEN", "tok")

	cfg := config.Defaults()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "https://tracker.example.org", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.CSRFToken)
}

func TestLoad(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "cfg.yaml")
	writeFile(t, path, `
pager:
  default_page_size: 25
  page_sizes:
    areas: 5
tables:
  - name: users
    type: csv
    path: users.csv
    id_column: id
server:
  port: 9090
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, 25, cfg.PageSizeFor("users"))
	assert.Equal(t, 5, cfg.PageSizeFor("areas"))
	// page_sizes replaced as a whole section: rooms falls back to the default.
	assert.Equal(t, 25, cfg.PageSizeFor("rooms"))
	require.Len(t, cfg.Tables, 1)
	assert.Equal(t, "users", cfg.Tables[0].Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.DefaultServerHost, cfg.Server.Host)
}

func TestValidate(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{name: "defaults valid", mutate: func(*config.Config) {}},
		{
			name:    "zero default page size",
			mutate:  func(c *config.Config) { c.Pager.DefaultPageSize = 0 },
			wantErr: config.ErrInvalidPageSize,
		},
		{
			name:    "negative table page size",
			mutate:  func(c *config.Config) { c.Pager.PageSizes["users"] = -1 },
			wantErr: config.ErrInvalidPageSize,
		},
		{
			name:    "bad port",
			mutate:  func(c *config.Config) { c.Server.Port = 70000 },
			wantErr: config.ErrInvalidPort,
		},
		{
			name: "duplicate table",
			mutate: func(c *config.Config) {
				c.Tables = []table.Source{
					{Name: "users", Path: "a.csv"},
					{Name: "users", Path: "b.csv"},
				}
			},
			wantErr: config.ErrDuplicateTable,
		},
		{
			name: "invalid source",
			mutate: func(c *config.Config) {
				c.Tables = []table.Source{{Name: "users", Type: table.SourcePostgres}}
			},
			wantErr: table.ErrMissingSourceParam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "nested", "config.yaml")

	cfg := config.Defaults()
	cfg.API.BaseURL = "https://tracker.example.org"
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.example.org", loaded.API.BaseURL)
	assert.Equal(t, cfg.Pager, loaded.Pager)
}

func TestNew_ReadsConfigFile(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "custom.yaml")
	writeFile(t, path, "logging:\n  level: warn\n  format: json\n")
	t.Setenv("CERTTRACK_CONFIG", path)

	cfg := config.New()
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, path, cfg.Path())
}

func TestNew_CorruptFileFallsBackToDefaults(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "broken.yaml")
	writeFile(t, path, "logging: [unclosed\n")
	t.Setenv("CERTTRACK_CONFIG", path)

	cfg := config.New()
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Empty(t, cfg.Path())
}

func TestNew_PartialSectionKeepsDefaults(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "server.yaml")
	writeFile(t, path, "server:\n  port: 9090\nlogging:\n  format: json\n")
	t.Setenv("CERTTRACK_CONFIG", path)

	cfg := config.New()
	assert.Equal(t, config.DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestGlobalConfig(t *testing.T) {
	isolateHome(t)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, config.GetGlobalConfig())
	assert.Equal(t, config.DefaultLogLevel, config.GetLogLevel())
	assert.Equal(t, 20, config.GetPageSize("rooms"))

	custom := config.Defaults()
	custom.Pager.DefaultPageSize = 7
	config.SetGlobalConfig(custom)
	assert.Equal(t, 7, config.GetPageSize("users"))
}

func TestEnsureLogDir(t *testing.T) {
	home := isolateHome(t)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.Defaults()
	cfg.Logging.File = filepath.Join(home, "logs", "certtrack.log")
	config.SetGlobalConfig(cfg)

	require.NoError(t, config.EnsureLogDir())
	info, err := os.Stat(filepath.Join(home, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)

	lc.File = "/tmp/certtrack.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/certtrack.log", got.File)
	assert.Equal(t, "debug", got.Level)
}

func TestResolveProjectDir(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()

	t.Run("flag", func(t *testing.T) {
		dir := t.TempDir()
		got := config.ResolveProjectDir(ctx, dir, "/does/not/matter")
		assert.Equal(t, filepath.Join(dir, ".certtrack"), got)
	})

	t.Run("flag already ends in .certtrack", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), ".certtrack")
		assert.Equal(t, dir, config.ResolveProjectDir(ctx, dir, ""))
	})

	t.Run("env", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("CERTTRACK_PROJECT_DIR", dir)
		assert.Equal(t, filepath.Join(dir, ".certtrack"), config.ResolveProjectDir(ctx, "", "/does/not/matter"))
	})

	t.Run("walk up", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".certtrack"), 0o750))
		sub := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(sub, 0o750))

		assert.Equal(t, filepath.Join(root, ".certtrack"), config.ResolveProjectDir(ctx, "", sub))
	})

	t.Run("no project", func(t *testing.T) {
		assert.Empty(t, config.ResolveProjectDir(ctx, "", t.TempDir()))
	})
}

func TestNewWithProjectDir(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()

	projectDir := filepath.Join(t.TempDir(), ".certtrack")
	writeFile(t, filepath.Join(projectDir, "config.yaml"), "server:\n  host: 0.0.0.0\n  port: 8181\n")

	cfg := config.NewWithProjectDir(ctx, projectDir)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)

	empty := config.NewWithProjectDir(ctx, "")
	assert.Equal(t, config.DefaultServerPort, empty.Server.Port)

	missing := config.NewWithProjectDir(ctx, t.TempDir())
	assert.Equal(t, config.DefaultServerPort, missing.Server.Port)
}

func TestNewWithProjectDir_PartialServerSection(t *testing.T) {
	isolateHome(t)
	projectDir := filepath.Join(t.TempDir(), ".certtrack")
	writeFile(t, filepath.Join(projectDir, "config.yaml"), "server:\n  host: 0.0.0.0\n")

	cfg := config.NewWithProjectDir(context.Background(), projectDir)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
}

func TestEnsureGitignore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", ".certtrack")

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))
	assert.Contains(t, string(data), "session.json")

	custom := "# mine\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(custom), 0o600))
	created, err = config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)
	data, err = os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}
