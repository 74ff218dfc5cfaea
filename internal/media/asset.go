package media

// Locator is a stored object's public URL plus its content type.
type Locator struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// Asset is the result of a completed ingestion: the original bytes and the
// derived variant, both durably stored. An Asset is only ever constructed when
// both uploads succeeded.
type Asset struct {
	ID       string  `json:"id"`
	Original Locator `json:"original"`
	Derived  Locator `json:"derived"`
}

// AvatarRecord is the stable handle returned for a URL-sourced avatar.
// ID is the SHA-256 hex digest of the source URL.
type AvatarRecord struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// NewAsset assembles an Asset from the two upload results.
func NewAsset(id, originalURL, originalContentType, derivedURL, derivedContentType string) *Asset {
	return &Asset{
		ID:       id,
		Original: Locator{URL: originalURL, ContentType: originalContentType},
		Derived:  Locator{URL: derivedURL, ContentType: derivedContentType},
	}
}
