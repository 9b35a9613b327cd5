package presenter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

var cliAgents = []string{"curl", "wget", "httpie"}

// wantsCLI reports whether the client asked for terminal output, via
// query parameter, Accept header, or a known CLI user agent.
func wantsCLI(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "cli") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		return true
	}
	ua := strings.ToLower(r.Header.Get("User-Agent"))
	for _, tool := range cliAgents {
		if strings.Contains(ua, tool) {
			return true
		}
	}
	return false
}

func wantsPretty(r *http.Request) bool {
	v := r.URL.Query().Get("pretty")
	return v == "1" || strings.EqualFold(v, "true")
}

// responseBuffer captures a handler's response so it can be rewritten
// after the fact.
type responseBuffer struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header), status: http.StatusOK}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *responseBuffer) WriteHeader(status int) { b.status = status }

// Middleware reformats JSON responses for terminal clients: CLI
// requests get rendered ANSI tables, pretty requests get indented
// JSON. Responses are buffered only when a transform was asked for;
// everything else streams through untouched. WebSocket routes must
// mount outside it, the buffer cannot hijack connections.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cli := wantsCLI(r)
		pretty := wantsPretty(r)
		if !cli && !pretty {
			next.ServeHTTP(w, r)
			return
		}

		buf := newResponseBuffer()
		next.ServeHTTP(buf, r)

		for k, vv := range buf.header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
		w.Header().Del("Content-Length")
		body := buf.body.Bytes()

		if cli {
			if out, ok := Render(body, r.URL.Path); ok {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(buf.status)
				w.Write([]byte(out))
				return
			}
		}

		var indented bytes.Buffer
		if err := json.Indent(&indented, body, "", "  "); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(buf.status)
			w.Write(indented.Bytes())
			w.Write([]byte("\n"))
			return
		}

		// Not JSON at all; hand it through unchanged.
		w.WriteHeader(buf.status)
		w.Write(body)
	})
}
