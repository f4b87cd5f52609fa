package devserver

import (
	"bytes"
	"errors"
	iofs "io/fs"
	"net/http"
	"path"
	"strings"
)

const (
	// ScriptPath serves the embedded live-reload client.
	ScriptPath = "/__kiln/livereload.js"
	// SocketPath is the live-reload websocket endpoint.
	SocketPath = "/__kiln/livereload"
)

var scriptTag = []byte(`<script src="` + ScriptPath + `"></script>`)

// injectScript inserts the client script tag before the last </body>, or appends it.
func injectScript(html []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(html), []byte("</body>"))
	if idx < 0 {
		return append(append([]byte{}, html...), scriptTag...)
	}

	out := make([]byte, 0, len(html)+len(scriptTag))
	out = append(out, html[:idx]...)
	out = append(out, scriptTag...)
	out = append(out, html[idx:]...)
	return out
}

// htmlHandler serves files from root, adding the live-reload client to HTML pages.
type htmlHandler struct {
	root  http.FileSystem
	files http.Handler
}

func newHTMLHandler(root http.FileSystem) *htmlHandler {
	return &htmlHandler{root: root, files: http.FileServer(root)}
}

func (h *htmlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}

	if path.Ext(name) != ".html" {
		h.files.ServeHTTP(w, r)
		return
	}

	f, err := h.root.Open(name)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			h.files.ServeHTTP(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close() //nolint:errcheck // Read-only file

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, name, info.ModTime(), bytes.NewReader(injectScript(buf.Bytes())))
}
