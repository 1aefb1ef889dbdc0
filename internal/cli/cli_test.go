package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netlab/netlabctl/internal/api"
	"github.com/netlab/netlabctl/internal/config"
	"github.com/netlab/netlabctl/internal/session"
)

// writeConfig stores a config in a temp dir that keeps the identity in a JSON file.
func writeConfig(t *testing.T, baseURL string) (cfgPath, storePath string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "config.toml")
	storePath = filepath.Join(dir, "session.json")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:1/api"
	}
	err := config.SaveFile(cfgPath, config.Config{
		API:     config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Storage: config.StorageConfig{Backend: config.BackendFile, Path: storePath, Key: "userId"},
		Log:     config.LogConfig{Path: filepath.Join(dir, "netlab.log"), Level: "debug"},
	})
	require.NoError(t, err)
	return cfgPath, storePath
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func whoami(t *testing.T, cfgPath string, extra ...string) IdentityResult {
	t.Helper()
	out, err := execute(t, cfgPath, append([]string{"whoami", "--format", "json"}, extra...)...)
	require.NoError(t, err)
	var res IdentityResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "netlab", cmd.Use)

	for _, flag := range []string{"config", "verbose", "ephemeral", "format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "/", cmd.Flags().Lookup("path").DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"whoami", "login", "logout", "routes", "topologies", "start", "clear", "pcaps"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	_, err := execute(t, cfgPath, "routes", "--format", "yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestWhoamiKeepsGuestAcrossRuns(t *testing.T) {
	cfgPath, storePath := writeConfig(t, "")

	first := whoami(t, cfgPath)
	assert.Equal(t, "guest", first.Kind)
	assert.True(t, first.Guest)
	assert.True(t, session.ValidGuestID(first.ID), first.ID)

	second := whoami(t, cfgPath)
	assert.Equal(t, first, second)

	_, err := os.Stat(storePath)
	require.NoError(t, err)
}

func TestLoginLogout(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")
	guest := whoami(t, cfgPath)

	out, err := execute(t, cfgPath, "login", "u_42")
	require.NoError(t, err)
	assert.Equal(t, "u_42 (assigned)\n", out)

	res := whoami(t, cfgPath)
	assert.Equal(t, IdentityResult{ID: "u_42", Kind: "assigned", Guest: false}, res)

	out, err = execute(t, cfgPath, "logout")
	require.NoError(t, err)
	assert.Equal(t, "signed out\n", out)

	res = whoami(t, cfgPath)
	assert.True(t, res.Guest)
	assert.NotEqual(t, "u_42", res.ID)
	assert.NotEqual(t, guest.ID, res.ID)
}

func TestLoginGuestShapedID(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	_, err := execute(t, cfgPath, "login", "guest_zzzzzz")
	require.NoError(t, err)

	res := whoami(t, cfgPath)
	assert.Equal(t, IdentityResult{ID: "guest_zzzzzz", Kind: "guest", Guest: true}, res)
}

func TestEphemeralDoesNotPersist(t *testing.T) {
	cfgPath, storePath := writeConfig(t, "")

	res := whoami(t, cfgPath, "--ephemeral")
	assert.True(t, res.Guest)

	_, err := os.Stat(storePath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestUnwritableDataDirIsSessionOnly(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o600))

	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, config.SaveFile(cfgPath, config.Config{
		API:     config.APIConfig{BaseURL: "http://127.0.0.1:1/api", Timeout: time.Second},
		Storage: config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(blocker, "netlab.db"), Key: "userId"},
		Log:     config.LogConfig{Path: filepath.Join(blocker, "netlab.log"), Level: "info"},
	}))

	first := whoami(t, cfgPath)
	assert.Equal(t, "guest", first.Kind)
	assert.True(t, session.ValidGuestID(first.ID), first.ID)

	out, err := execute(t, cfgPath, "login", "u_42")
	require.NoError(t, err)
	assert.Equal(t, "u_42 (assigned)\n", out)

	second := whoami(t, cfgPath)
	assert.True(t, second.Guest, "nothing was persisted")
}

func TestBadLogLevelIsRejected(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, config.SaveFile(cfgPath, config.Config{
		API:     config.APIConfig{BaseURL: "http://127.0.0.1:1/api", Timeout: time.Second},
		Storage: config.StorageConfig{Backend: config.BackendMemory, Key: "userId"},
		Log:     config.LogConfig{Path: filepath.Join(dir, "netlab.log"), Level: "loud"},
	}))

	_, err := execute(t, cfgPath, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `log level "loud"`)
}

func TestRoutesJSON(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	out, err := execute(t, cfgPath, "routes", "--format", "json")
	require.NoError(t, err)

	var res []RouteResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 7)
	assert.Equal(t, RouteResult{Key: 1, Path: "/", Name: "start"}, res[0])
	assert.Equal(t, RouteResult{Key: 7, Path: "/saved-pcaps", Name: "saved-pcaps"}, res[6])
}

func TestRoutesText(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	out, err := execute(t, cfgPath, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "/create-topology")
	assert.Contains(t, out, "PATH")
}

type fakeServer struct {
	mu    sync.Mutex
	paths []string
}

func (s *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user-topologies/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"user_id": r.PathValue("id"),
			"nodes":   []string{"prototype-u_42-r1", "prototype-u_42-r2"},
			"running": []bool{true, false},
		})
	})
	mux.HandleFunc("POST /api/start-topology", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "user_id": in["user_id"], "topology": in["topology"], "pid": 7})
	})
	mux.HandleFunc("DELETE /api/clear-topology/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "docker unavailable"})
	})
	mux.HandleFunc("GET /api/pcaps/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"pcaps":  []map[string]any{{"id": 9, "filename": "ring.pcap", "topology_name": "ring", "file_size": 1500}},
		})
	})
	mux.HandleFunc("DELETE /api/pcap/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	})
	return mux
}

func (s *fakeServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, r.Method+" "+r.URL.RequestURI())
}

func (s *fakeServer) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func newBackend(t *testing.T) (*fakeServer, string) {
	t.Helper()
	fs := &fakeServer{}
	srv := httptest.NewServer(fs.handler())
	t.Cleanup(srv.Close)
	return fs, srv.URL + "/api"
}

func TestTopologiesUsesStoredIdentity(t *testing.T) {
	fs, base := newBackend(t)
	cfgPath, _ := writeConfig(t, base)

	_, err := execute(t, cfgPath, "login", "u_42")
	require.NoError(t, err)

	out, err := execute(t, cfgPath, "topologies")
	require.NoError(t, err)
	assert.Contains(t, out, "prototype-u_42-r1")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "stopped")
	assert.Equal(t, []string{"GET /api/user-topologies/u_42"}, fs.Paths())
}

func TestTopologiesJSON(t *testing.T) {
	_, base := newBackend(t)
	cfgPath, _ := writeConfig(t, base)

	out, err := execute(t, cfgPath, "topologies", "--format", "json")
	require.NoError(t, err)

	var res []NodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []NodeResult{{Name: "prototype-u_42-r1", Running: true}, {Name: "prototype-u_42-r2", Running: false}}, res)
}

func TestStartSendsGuestID(t *testing.T) {
	fs, base := newBackend(t)
	cfgPath, _ := writeConfig(t, base)
	guest := whoami(t, cfgPath)

	out, err := execute(t, cfgPath, "start", "star")
	require.NoError(t, err)
	assert.Equal(t, "topology star started for "+guest.ID+"\n", out)
	assert.Equal(t, []string{"POST /api/start-topology"}, fs.Paths())
}

func TestStartRejectsUnknownTopology(t *testing.T) {
	fs, base := newBackend(t)
	cfgPath, _ := writeConfig(t, base)

	_, err := execute(t, cfgPath, "start", "hexagon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown topology "hexagon"`)
	assert.Empty(t, fs.Paths())
}

func TestClearSurfacesBackendError(t *testing.T) {
	_, base := newBackend(t)
	cfgPath, _ := writeConfig(t, base)

	_, err := execute(t, cfgPath, "clear")

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "docker unavailable", apiErr.Message)
}

func TestPcapsListAndDelete(t *testing.T) {
	fs, base := newBackend(t)
	cfgPath, _ := writeConfig(t, base)
	_, err := execute(t, cfgPath, "login", "u_42")
	require.NoError(t, err)

	out, err := execute(t, cfgPath, "pcaps")
	require.NoError(t, err)
	assert.Contains(t, out, "ring.pcap")
	assert.Contains(t, out, "1.5 kB")

	out, err = execute(t, cfgPath, "pcaps", "delete", "9")
	require.NoError(t, err)
	assert.Equal(t, "deleted capture #9\n", out)

	assert.Equal(t, []string{"GET /api/pcaps/u_42", "DELETE /api/pcap/9?user_id=u_42"}, fs.Paths())
}

func TestPcapsDeleteRejectsBadID(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	_, err := execute(t, cfgPath, "pcaps", "delete", "nine")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pcap id "nine"`)
}
