package avatar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediary/service/internal/media"
)

type fakeWeb struct {
	fetches      int
	resolves     int
	imageURL     string
	imageData    []byte
	resolveErr   error
	fetchErr     error
	lastFetchURL string
}

func (f *fakeWeb) FetchImage(_ context.Context, url string) ([]byte, error) {
	f.fetches++
	f.lastFetchURL = url
	return f.imageData, f.fetchErr
}

func (f *fakeWeb) ResolveNFTImage(_ context.Context, _ string) (string, error) {
	f.resolves++
	return f.imageURL, f.resolveErr
}

type fakeIngestor struct {
	existing  *media.Asset
	getErr    error
	uploaded  *media.Asset
	uploadID  string
	uploadVar media.Variant
	uploads   int
}

func (f *fakeIngestor) Upload(_ context.Context, id string, _ []byte, variant media.Variant) (*media.Asset, error) {
	f.uploads++
	f.uploadID = id
	f.uploadVar = variant
	return f.uploaded, nil
}

func (f *fakeIngestor) Get(_ context.Context, id string, _ media.Variant) (*media.Asset, error) {
	return f.existing, f.getErr
}

func TestHashURLStable(t *testing.T) {
	a := HashURL("https://example.com/pfp.png")
	b := HashURL("https://example.com/pfp.png")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashURL("https://example.com/other.png"))
}

func TestResolveHydratesOnFirstSight(t *testing.T) {
	gateway := &fakeWeb{imageData: []byte("png bytes")}
	ingestor := &fakeIngestor{uploaded: &media.Asset{ID: "x"}}
	svc := NewService(nil, gateway, ingestor)

	asset, err := svc.Resolve(context.Background(), "https://example.com/pfp.png", false)
	require.NoError(t, err)

	assert.Equal(t, "x", asset.ID)
	assert.Equal(t, 1, gateway.fetches)
	assert.Equal(t, 0, gateway.resolves, "non-nft resolution skips metadata")
	assert.Equal(t, HashURL("https://example.com/pfp.png"), ingestor.uploadID)
	assert.Equal(t, media.VariantAvatar, ingestor.uploadVar)
}

func TestResolveDedupSkipsFetch(t *testing.T) {
	existing := &media.Asset{ID: "already-there"}
	gateway := &fakeWeb{}
	svc := NewService(nil, gateway, &fakeIngestor{existing: existing})

	asset, err := svc.Resolve(context.Background(), "https://example.com/pfp.png", true)
	require.NoError(t, err)

	assert.Same(t, existing, asset)
	assert.Zero(t, gateway.fetches, "an existing avatar must not be fetched again")
	assert.Zero(t, gateway.resolves)
}

func TestResolveNFTIndirection(t *testing.T) {
	gateway := &fakeWeb{imageURL: "ipfs://QmHash/pfp.png", imageData: []byte("bytes")}
	ingestor := &fakeIngestor{uploaded: &media.Asset{ID: "x"}}
	svc := NewService(nil, gateway, ingestor)

	_, err := svc.Resolve(context.Background(), "https://example.com/metadata.json", true)
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.resolves)
	assert.Equal(t, "ipfs://QmHash/pfp.png", gateway.lastFetchURL, "the metadata's image reference is what gets fetched")
}

func TestResolveExistenceCheckFailure(t *testing.T) {
	gateway := &fakeWeb{}
	svc := NewService(nil, gateway, &fakeIngestor{getErr: errors.New("storage down")})

	_, err := svc.Resolve(context.Background(), "https://example.com/pfp.png", false)
	require.Error(t, err)
	assert.Zero(t, gateway.fetches, "no fetch when the existence check itself fails")
}

func TestResolveMetadataFailure(t *testing.T) {
	gateway := &fakeWeb{resolveErr: errors.New("metadata gone")}
	svc := NewService(nil, gateway, &fakeIngestor{})

	_, err := svc.Resolve(context.Background(), "https://example.com/metadata.json", true)
	require.Error(t, err)
	assert.Zero(t, gateway.fetches)
}
