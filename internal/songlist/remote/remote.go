// Package remote fetches a song manifest from Google Drive rather
// than a local path, for deployments where the library is shared
// across machines rather than checked into each one. It is the
// optional counterpart to songlist's local file loaders, wired
// through the same google.golang.org/api client libraries used
// elsewhere in the broader fingerprinting ecosystem for object
// storage access.
package remote

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"constellation/internal/songlist"
)

// Client fetches song manifests stored as a single JSON file in a
// Google Drive folder, identified by file ID.
type Client struct {
	svc *drive.Service
}

// NewClient builds a Client authenticated with an API key, for
// read-only access to a public or link-shared manifest file.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("remote: building drive client: %w", err)
	}
	return &Client{svc: svc}, nil
}

// FetchManifest downloads fileID's contents and parses it as a
// songlist JSON manifest.
func (c *Client) FetchManifest(fileID string) ([]songlist.Entry, error) {
	resp, err := c.svc.Files.Get(fileID).Download()
	if err != nil {
		return nil, fmt.Errorf("remote: downloading manifest %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: reading manifest %s: %w", fileID, err)
	}

	entries, err := songlist.LoadManifest(data)
	if err != nil {
		return nil, fmt.Errorf("remote: parsing manifest %s: %w", fileID, err)
	}
	return entries, nil
}
