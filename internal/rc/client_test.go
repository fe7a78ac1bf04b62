package rc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDaemon records rc calls and serves canned JSON replies per path.
type fakeDaemon struct {
	mu      sync.Mutex
	replies map[string]any
	status  map[string]int
	bodies  map[string][]json.RawMessage
}

func newFakeDaemon() *fakeDaemon {
	return &fakeDaemon{
		replies: make(map[string]any),
		status:  make(map[string]int),
		bodies:  make(map[string][]json.RawMessage),
	}
}

func (d *fakeDaemon) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "rc calls are POST", http.StatusMethodNotAllowed)
			return
		}
		path := r.URL.Path[1:]

		var body json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		d.mu.Lock()
		d.bodies[path] = append(d.bodies[path], body)
		reply, ok := d.replies[path]
		status := d.status[path]
		d.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":  "daemon says no",
				"path":   path,
				"status": status,
			})
			return
		}
		if !ok {
			reply = map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(reply)
	})
}

func (d *fakeDaemon) calls(path string) []json.RawMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bodies[path]
}

func newTestClient(t *testing.T, daemon *fakeDaemon) *Client {
	t.Helper()
	srv := httptest.NewServer(daemon.handler())
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{URL: srv.URL})
}

func TestClient_CoreVersion(t *testing.T) {
	daemon := newFakeDaemon()
	daemon.replies["core/version"] = map[string]any{
		"version":   "v1.68.2",
		"os":        "linux",
		"arch":      "amd64",
		"goVersion": "go1.23.1",
	}
	client := newTestClient(t, daemon)

	v, err := client.CoreVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.68.2", v.Version)
	assert.Equal(t, "linux", v.OS)
	assert.Equal(t, "go1.23.1", v.GoVer)
}

func TestClient_CoreStats(t *testing.T) {
	daemon := newFakeDaemon()
	daemon.replies["core/stats"] = map[string]any{
		"bytes":     1048576,
		"speed":     512.5,
		"transfers": 3,
		"errors":    1,
	}
	client := newTestClient(t, daemon)

	s, err := client.CoreStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1048576), s.Bytes)
	assert.Equal(t, 512.5, s.Speed)
	assert.Equal(t, int64(3), s.Transfers)
	assert.Equal(t, int64(1), s.Errors)
}

func TestClient_Services(t *testing.T) {
	daemon := newFakeDaemon()
	daemon.replies["options/blocks"] = map[string]any{
		"options": []string{"vfs", "main", "mount"},
	}
	client := newTestClient(t, daemon)

	services, err := client.Services(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "mount", "vfs"}, services, "blocks come back sorted")
}

func TestClient_ServiceOptions(t *testing.T) {
	daemon := newFakeDaemon()
	daemon.replies["options/info"] = map[string]any{
		"options": map[string]any{
			"vfs": []map[string]any{
				{
					"Name":       "cache_mode",
					"FieldName":  "CacheMode",
					"Type":       "CacheMode",
					"ValueStr":   "off",
					"DefaultStr": "off",
					"Groups":     "Cache",
				},
			},
		},
	}
	client := newTestClient(t, daemon)

	opts, err := client.ServiceOptions(context.Background(), "vfs")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "cache_mode", opts[0].Name)
	assert.Equal(t, "CacheMode", opts[0].FieldName)
	assert.Equal(t, "Cache", opts[0].Groups)

	// the request names the block being fetched
	calls := daemon.calls("options/info")
	require.Len(t, calls, 1)
	var params map[string]any
	require.NoError(t, json.Unmarshal(calls[0], &params))
	assert.Equal(t, "vfs", params["blocks"])
}

func TestClient_ServiceOptions_MissingBlock(t *testing.T) {
	daemon := newFakeDaemon()
	daemon.replies["options/info"] = map[string]any{
		"options": map[string]any{},
	}
	client := newTestClient(t, daemon)

	_, err := client.ServiceOptions(context.Background(), "vfs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vfs")
}

func TestClient_SetOptions(t *testing.T) {
	daemon := newFakeDaemon()
	client := newTestClient(t, daemon)

	err := client.SetOptions(context.Background(), "vfs", map[string]any{"CacheMode": "full"})
	require.NoError(t, err)

	calls := daemon.calls("options/set")
	require.Len(t, calls, 1)
	var params map[string]map[string]any
	require.NoError(t, json.Unmarshal(calls[0], &params))
	assert.Equal(t, "full", params["vfs"]["CacheMode"])
}

func TestClient_DaemonError(t *testing.T) {
	daemon := newFakeDaemon()
	daemon.status["options/set"] = http.StatusInternalServerError
	client := newTestClient(t, daemon)

	err := client.SetOptions(context.Background(), "vfs", map[string]any{"CacheMode": "full"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon says no", "the daemon's error text is surfaced")
}

func TestClient_BasicAuth(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{URL: srv.URL, Username: "admin", Password: "hunter2"})
	_, err := client.CoreVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "hunter2", gotPass)
}
