package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DriveClient wraps the drive REST API for one drive: download-URL lookup,
// content upload, rename and share-link minting. Artifact names are
// addressed relative to the drive root.
type DriveClient struct {
	baseURL string
	driveID string
	tokens  *TokenSource

	httpClient   *http.Client
	uploadClient *http.Client
}

// NewDriveClient builds a client. uploadTimeout bounds only the content
// upload call; everything else is awaited without a deadline beyond the
// request context.
func NewDriveClient(baseURL, driveID string, tokens *TokenSource, uploadTimeout time.Duration) *DriveClient {
	return &DriveClient{
		baseURL:      baseURL,
		driveID:      driveID,
		tokens:       tokens,
		httpClient:   &http.Client{},
		uploadClient: &http.Client{Timeout: uploadTimeout},
	}
}

func (d *DriveClient) itemURL(name, suffix string) string {
	return fmt.Sprintf("%s/drives/%s/root:/%s%s", d.baseURL, d.driveID, url.PathEscape(name), suffix)
}

func (d *DriveClient) do(ctx context.Context, client *http.Client, method, rawURL string, body []byte, contentType string) (*http.Response, error) {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return client.Do(req)
}

type driveItem struct {
	DownloadURL string `json:"@microsoft.graph.downloadUrl"`
}

// LookupDownloadURL resolves an artifact name to a direct download URL.
// Returns empty string without error when the artifact does not exist.
func (d *DriveClient) LookupDownloadURL(ctx context.Context, name string) (string, error) {
	resp, err := d.do(ctx, d.httpClient, http.MethodGet, d.itemURL(name, ""), nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("drive lookup failed: name=%s status=%d", name, resp.StatusCode)
	}

	var item driveItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return "", err
	}
	return item.DownloadURL, nil
}

// Upload writes artifact content. Subject to the upload timeout.
func (d *DriveClient) Upload(ctx context.Context, name string, data []byte) error {
	resp, err := d.do(ctx, d.uploadClient, http.MethodPut, d.itemURL(name, ":/content"), data, "application/pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("drive upload failed: name=%s status=%d", name, resp.StatusCode)
	}
	return nil
}

// Rename is a noop when the artifact does not exist; replacing a missing
// prior artifact is not an error.
func (d *DriveClient) Rename(ctx context.Context, oldName, newName string) error {
	payload, err := json.Marshal(map[string]string{"name": newName})
	if err != nil {
		return err
	}

	resp, err := d.do(ctx, d.httpClient, http.MethodPatch, d.itemURL(oldName, ""), payload, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("drive rename failed: name=%s status=%d", oldName, resp.StatusCode)
	}
	return nil
}

type shareLinkResponse struct {
	Link struct {
		WebURL string `json:"webUrl"`
	} `json:"link"`
}

// CreateShareLink mints an anonymous view link for the artifact.
func (d *DriveClient) CreateShareLink(ctx context.Context, name string) (string, error) {
	payload, err := json.Marshal(map[string]string{"type": "view", "scope": "anonymous"})
	if err != nil {
		return "", err
	}

	resp, err := d.do(ctx, d.httpClient, http.MethodPost, d.itemURL(name, ":/createLink"), payload, "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("share link failed: name=%s status=%d", name, resp.StatusCode)
	}

	var parsed shareLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Link.WebURL == "" {
		return "", fmt.Errorf("share link response missing webUrl: name=%s", name)
	}
	return parsed.Link.WebURL, nil
}
