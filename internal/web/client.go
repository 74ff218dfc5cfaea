package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	maxBodyBytes   = 3 * 1024 * 1024
	requestTimeout = 30 * time.Second
	ipfsScheme     = "ipfs://"
	ipnsScheme     = "ipns://"
)

// Client implements Gateway over net/http. ipfs:// and ipns:// URLs are
// rewritten to the configured gateway before fetching.
type Client struct {
	http        *http.Client
	ipfsGateway string
	maxBody     int64
	log         *slog.Logger
}

// NewClient creates a Client. ipfsGateway is the base URL of the IPFS HTTP
// gateway used for ipfs:// and ipns:// rewrites.
func NewClient(log *slog.Logger, ipfsGateway string) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		ipfsGateway: strings.TrimRight(ipfsGateway, "/"),
		maxBody:     maxBodyBytes,
		log:         log.With(slog.String("component", "web")),
	}
}

// nftMetadata is the externally controlled, untrusted metadata shape. The
// first non-empty field in declaration order wins.
type nftMetadata struct {
	Image     string `json:"image"`
	ImageURL  string `json:"image_url"`
	ImageData string `json:"image_data"`
}

// ResolveNFTImage fetches NFT metadata and extracts its image reference.
func (c *Client) ResolveNFTImage(ctx context.Context, url string) (string, error) {
	c.log.Info("requesting nft metadata", slog.String("url", url))

	body, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("get nft metadata: %w", err)
	}

	var metadata nftMetadata
	if err := json.Unmarshal(body, &metadata); err != nil {
		return "", fmt.Errorf("parse nft metadata: %w", err)
	}

	for _, candidate := range []string{metadata.Image, metadata.ImageURL, metadata.ImageData} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", ErrMetadataImageMissing
}

// FetchImage downloads the raw bytes at url.
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	c.log.Info("requesting image", slog.String("url", url))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rewriteURL(rawURL), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	return c.readLimited(resp.Body)
}

// readLimited streams the body, stopping the download as soon as the
// accumulated bytes exceed the cap, so the full body is never buffered.
func (c *Client) readLimited(body io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(buf)) > c.maxBody {
		return nil, ErrBodyTooLarge
	}
	return buf, nil
}

// rewriteURL maps ipfs:// and ipns:// identifiers onto the configured HTTP
// gateway, preserving any embedded path.
func (c *Client) rewriteURL(url string) string {
	switch {
	case strings.HasPrefix(url, ipfsScheme):
		return c.ipfsGateway + "/ipfs/" + strings.TrimPrefix(url, ipfsScheme)
	case strings.HasPrefix(url, ipnsScheme):
		return c.ipfsGateway + "/ipns/" + strings.TrimPrefix(url, ipnsScheme)
	default:
		return url
	}
}
