package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfs-lab/certtrack/internal/cli"
	"github.com/lfs-lab/certtrack/internal/config"
)

// setupCLITest isolates HOME and CERTTRACK_* and resets global config state.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CERTTRACK_CONFIG", "")
	t.Setenv("CERTTRACK_PROJECT_DIR", "")
	t.Setenv("CERTTRACK_LOG_LEVEL", "error")
	t.Setenv("CERTTRACK_LOG_FORMAT", "")
	t.Setenv("CERTTRACK_API_URL", "")
	t.Setenv("CERTTRACK_CSRF_TOKEN", "")

	config.ResetGlobalConfigForTest()
	config.SetResolvedProjectDir("")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

// writeTestConfig writes users.csv (25 rows), rooms.csv and a config naming
// both, returning the config path.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()

	var users strings.Builder
	users.WriteString("id,name,building\n")
	for i := 1; i <= 25; i++ {
		building := "MCML"
		if i%2 == 0 {
			building = "FNH"
		}
		fmt.Fprintf(&users, "%d,user%d,%s\n", i, i, building)
	}
	usersPath := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(usersPath, []byte(users.String()), 0o600))

	rooms := "id,user,building,floor,room,new\n" +
		"41,alice,MCML,2,201,true\n" +
		"7,,FNH,1,110,false\n" +
		"12,bob,MCML,1,101,1\n"
	roomsPath := filepath.Join(dir, "rooms.csv")
	require.NoError(t, os.WriteFile(roomsPath, []byte(rooms), 0o600))

	cfg := fmt.Sprintf(`tables:
  - name: users
    type: csv
    path: %s
    id_column: id
  - name: rooms
    path: %s
    id_column: id
%s`, usersPath, roomsPath, extra)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
