package cli_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAll_Preview(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "nothing",
			args: nil,
			want: "Nothing selected\n",
		},
		{
			name: "all new rows",
			args: []string{"--all"},
			want: "2 rooms selected:\n  bob: MCML 1 - Room 101\n  alice: MCML 2 - Room 201\n",
		},
		{
			name: "single id without user",
			args: []string{"--id", "7"},
			want: "1 rooms selected:\n  FNH 1 - Room 110\n",
		},
		{
			name: "all plus id",
			args: []string{"--all", "--id", "7"},
			// Numeric ids list in ascending order, not check order.
			want: "3 rooms selected:\n  FNH 1 - Room 110\n  bob: MCML 1 - Room 101\n  alice: MCML 2 - Room 201\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			cfg := writeTestConfig(t, "")

			args := append([]string{"--config", cfg, "update-all", "rooms"}, tt.args...)
			out, _, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestUpdateAll_Errors(t *testing.T) {
	setupCLITest(t)
	cfg := writeTestConfig(t, "")

	_, _, err := execute(t, "--config", cfg, "update-all", "rooms", "--id", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no row with id "99"`)

	_, _, err = execute(t, "--config", cfg, "update-all", "users", "--all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column")
}

func TestUpdateAll_Submit(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantOut string
		wantErr bool
	}{
		{
			name:    "success",
			status:  http.StatusOK,
			body:    `{"status":"success","message":"2 rooms updated"}`,
			wantOut: "2 rooms updated\n",
		},
		{
			name:    "warning",
			status:  http.StatusOK,
			body:    `{"status":"warning","message":"1 room skipped"}`,
			wantOut: "1 room skipped\n",
		},
		{
			name:    "error status",
			status:  http.StatusOK,
			body:    `{"status":"error","message":"not allowed"}`,
			wantOut: "not allowed\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			var gotRooms []string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, r.ParseForm())
				gotRooms = r.PostForm["rooms[]"]
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)
			t.Setenv("CERTTRACK_API_URL", srv.URL)
			cfg := writeTestConfig(t, "")

			out, _, err := execute(t, "--config", cfg, "update-all", "rooms", "--all", "--submit", "/api/rooms/update-all/")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, []string{"12", "41"}, gotRooms)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestUpdateAll_SubmitRequestError(t *testing.T) {
	setupCLITest(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"CSRF token missing"}`))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("CERTTRACK_API_URL", srv.URL)
	cfg := writeTestConfig(t, "")

	_, errOut, err := execute(t, "--config", cfg, "update-all", "rooms", "--id", "41", "--submit", "/api/rooms/update-all/")
	require.Error(t, err)
	assert.Contains(t, errOut, "Error: Forbidden (403). CSRF token missing")
}
