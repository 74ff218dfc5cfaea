package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(ipfsGateway string) *Client {
	c := NewClient(nil, ipfsGateway)
	return c
}

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image bytes"))
	}))
	defer srv.Close()

	body, err := newTestClient("").FetchImage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), body)
}

func TestFetchImageBodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), maxBodyBytes+1))
	}))
	defer srv.Close()

	_, err := newTestClient("").FetchImage(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestFetchImageCapIsExclusive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), maxBodyBytes))
	}))
	defer srv.Close()

	body, err := newTestClient("").FetchImage(context.Background(), srv.URL)
	require.NoError(t, err, "a body exactly at the cap is allowed")
	assert.Len(t, body, maxBodyBytes)
}

func TestFetchImageDoesNotFollowRedirects(t *testing.T) {
	redirected := false
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/target" {
			redirected = true
			_, _ = w.Write([]byte("secret"))
			return
		}
		http.Redirect(w, r, srv.URL+"/target", http.StatusFound)
	}))
	defer srv.Close()

	_, err := newTestClient("").FetchImage(context.Background(), srv.URL)
	require.Error(t, err, "a redirect response is a failed fetch")
	assert.False(t, redirected, "the redirect target must never be requested")
}

func TestFetchImageNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient("").FetchImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestResolveNFTImagePriority(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"image wins over image_url", `{"image":"A","image_url":"B"}`, "A"},
		{"image_url wins over image_data", `{"image_url":"B","image_data":"C"}`, "B"},
		{"image_data as last resort", `{"image_data":"C"}`, "C"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			got, err := newTestClient("").ResolveNFTImage(context.Background(), srv.URL)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveNFTImageMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"no image here"}`))
	}))
	defer srv.Close()

	_, err := newTestClient("").ResolveNFTImage(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrMetadataImageMissing)
}

func TestResolveNFTImageParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient("").ResolveNFTImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestRewriteURL(t *testing.T) {
	c := newTestClient("https://gateway.example.com")

	cases := []struct {
		in   string
		want string
	}{
		{"ipfs://QmHash/cat.png", "https://gateway.example.com/ipfs/QmHash/cat.png"},
		{"ipns://name.eth/img", "https://gateway.example.com/ipns/name.eth/img"},
		{"https://example.com/a.png", "https://example.com/a.png"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.rewriteURL(tc.in))
	}
}
