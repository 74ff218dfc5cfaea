package avatar

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediary/service/internal/media"
)

func TestResolveEndpoint(t *testing.T) {
	asset := &media.Asset{
		ID:      HashURL("https://example.com/pfp.png"),
		Derived: media.Locator{URL: "https://cdn/avatar", ContentType: "image/webp"},
	}
	svc := NewService(nil, &fakeWeb{imageData: []byte("x")}, &fakeIngestor{uploaded: asset})
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/avatars", strings.NewReader(`{"url":"https://example.com/pfp.png","nft":false}`))
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), asset.ID)
	assert.Contains(t, rec.Body.String(), "https://cdn/avatar")
}

func TestResolveEndpointRequiresURL(t *testing.T) {
	h := NewHandler(NewService(nil, &fakeWeb{}, &fakeIngestor{}))

	req := httptest.NewRequest(http.MethodPost, "/avatars", strings.NewReader(`{"nft":true}`))
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveEndpointBadJSON(t *testing.T) {
	h := NewHandler(NewService(nil, &fakeWeb{}, &fakeIngestor{}))

	req := httptest.NewRequest(http.MethodPost, "/avatars", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
