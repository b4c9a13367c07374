package export

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func get(p *PreviewRegistry, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPreviewRegistry_PublishRevokesPrevious(t *testing.T) {
	p := NewPreviewRegistry()

	first := p.Publish([]byte("%PDF-first"))
	assert.Equal(t, 1, p.Len())

	second := p.Publish([]byte("%PDF-second"))
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, p.Len(), "only one live preview")
	assert.Equal(t, second, p.Current())

	assert.Equal(t, http.StatusNotFound, get(p, first).Code)

	rec := get(p, second)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-second", rec.Body.String())
}

func TestPreviewRegistry_Revoke(t *testing.T) {
	p := NewPreviewRegistry()
	url := p.Publish([]byte("%PDF"))

	p.Revoke(url)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, "", p.Current())
	assert.Equal(t, http.StatusNotFound, get(p, url).Code)

	// revoking twice or revoking unknown handles is harmless
	p.Revoke(url)
	p.Revoke("/preview/unknown")
	assert.Equal(t, 0, p.Len())
}

func TestPreviewRegistry_PublishCopiesBytes(t *testing.T) {
	p := NewPreviewRegistry()
	content := []byte("%PDF-original")
	url := p.Publish(content)
	content[0] = 'X'

	assert.Equal(t, "%PDF-original", get(p, url).Body.String())
}

func TestPreviewRegistry_Root(t *testing.T) {
	p := NewPreviewRegistry()
	assert.Equal(t, http.StatusNotFound, get(p, "/").Code)

	url := p.Publish([]byte("%PDF"))
	rec := get(p, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, url, rec.Header().Get("Location"))
}

func TestPreviewRegistry_MethodNotAllowed(t *testing.T) {
	p := NewPreviewRegistry()
	url := p.Publish([]byte("%PDF"))

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 1, p.Len())
}
