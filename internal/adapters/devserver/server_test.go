package devserver_test

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/devserver"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const indexHTML = "<!doctype html><html><body><script src=\"js/app.js\"></script></body></html>"

func setupBuild(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "js"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte(indexHTML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "js", "app.js"), []byte(strings.Repeat("var a=1;", 200)), 0o600))
	return root
}

func newServer(t *testing.T) *devserver.Server {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	return devserver.NewServer(log)
}

func get(t *testing.T, url string, gz bool) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	if gz {
		req.Header.Set("Accept-Encoding", "gzip")
	}

	// A bare transport so the response is not transparently decompressed.
	resp, err := (&http.Transport{DisableCompression: true}).RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck // Test body

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(resp.Body)
		require.NoError(t, err)
		body = zr
	}
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestServer_Handler_InjectsClientIntoHTML(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(srv.Handler(setupBuild(t)))
	defer ts.Close()

	for _, path := range []string{"/", "/index.html"} {
		resp, body := get(t, ts.URL+path, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, `<script src="/__kiln/livereload.js"></script></body>`, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	}
}

func TestServer_Handler_ServesFilesGzipped(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(srv.Handler(setupBuild(t)))
	defer ts.Close()

	resp, body := get(t, ts.URL+"/js/app.js", true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Equal(t, strings.Repeat("var a=1;", 200), body)
	assert.NotContains(t, body, "livereload")
}

func TestServer_Handler_ClientScriptAndMissingFiles(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(srv.Handler(setupBuild(t)))
	defer ts.Close()

	resp, body := get(t, ts.URL+devserver.ScriptPath, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/__kiln/livereload")
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")

	resp, _ = get(t, ts.URL+"/missing.html", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Reload(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(srv.Handler(setupBuild(t)))
	defer ts.Close()

	assert.Equal(t, 0, srv.Reload(), "no clients is a no-op")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + devserver.SocketPath
	conns := make([]*websocket.Conn, 0, 2)
	for range 2 {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		conns = append(conns, conn)
	}
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	require.Eventually(t, func() bool { return srv.Clients() == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, srv.Reload())

	for _, conn := range conns {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		kind, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		assert.Equal(t, devserver.ReloadMessage, string(msg))
	}

	_ = conns[0].Close()
	require.Eventually(t, func() bool { return srv.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestServer_ListenAndServe_GracefulShutdown(t *testing.T) {
	srv := newServer(t)
	root := setupBuild(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0", root) }()

	addrCtx, addrCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer addrCancel()
	addr, err := srv.Addr(addrCtx)
	require.NoError(t, err)

	resp, body := get(t, "http://"+addr.String()+"/", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "livereload.js")

	conn, wsResp, err := websocket.DefaultDialer.Dial("ws://"+addr.String()+devserver.SocketPath, nil)
	require.NoError(t, err)
	_ = wsResp.Body.Close()
	defer conn.Close() //nolint:errcheck // Test cleanup

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_ListenAndServe_AddressInUse(t *testing.T) {
	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()

	srv := newServer(t)
	addr := strings.TrimPrefix(busy.URL, "http://")
	err := srv.ListenAndServe(context.Background(), addr, t.TempDir())
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, domain.ErrServerFailed.Error(), zErr.Message())
	assert.Equal(t, addr, zErr.Metadata()["addr"])
}
