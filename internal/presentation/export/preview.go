package export

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/penwyp/go-timesheet/internal/util"
)

// PreviewPath is the URL prefix of published previews
const PreviewPath = "/preview/"

// PreviewRegistry serves in-memory PDF previews over HTTP. Each handle is a URL that stays
// valid until it is revoked, and publishing a new preview revokes the previous one.
type PreviewRegistry struct {
	mu        sync.Mutex
	current   string
	artifacts map[string][]byte
}

func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{artifacts: make(map[string][]byte)}
}

// Publish registers pdf and returns its URL path
func (p *PreviewRegistry) Publish(pdf []byte) string {
	token := uuid.NewString()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != "" {
		delete(p.artifacts, p.current)
		util.LogDebug("Revoked preview " + p.current)
	}

	content := make([]byte, len(pdf))
	copy(content, pdf)
	p.artifacts[token] = content
	p.current = token

	return PreviewPath + token
}

// Revoke releases a published preview. Unknown or already revoked URLs are ignored.
func (p *PreviewRegistry) Revoke(url string) {
	token := strings.TrimPrefix(url, PreviewPath)

	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.artifacts, token)
	if p.current == token {
		p.current = ""
	}
}

// Current returns the URL of the live preview, or "" when there is none
func (p *PreviewRegistry) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == "" {
		return ""
	}
	return PreviewPath + p.current
}

// Len returns the number of live previews
func (p *PreviewRegistry) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.artifacts)
}

// ServeHTTP serves a preview by URL. The root redirects to the live preview.
func (p *PreviewRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path == "/" {
		if current := p.Current(); current != "" {
			http.Redirect(w, r, current, http.StatusFound)
			return
		}
		http.NotFound(w, r)
		return
	}

	if !strings.HasPrefix(r.URL.Path, PreviewPath) {
		http.NotFound(w, r)
		return
	}

	p.mu.Lock()
	content, ok := p.artifacts[strings.TrimPrefix(r.URL.Path, PreviewPath)]
	p.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(content)
	}
}
