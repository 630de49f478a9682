package fileservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"

	"shelf/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Shelf/1.0"
)

// Client implements domain.FileService over plain HTTP/JSON + multipart.
type Client struct {
	baseURL    string
	owner      string // default owner label for entries the server reports bare
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new file service client
func NewClient(baseURL, owner string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		owner:   owner,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs a bodyless request and returns the response body
func (c *Client) doRequest(ctx context.Context, method, path string) (int, []byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("file service request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("file service request failed", "error", err)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// List returns the full current entry set, in server order.
// Any transport or status failure surfaces as ErrServiceUnavailable.
func (c *Client) List(ctx context.Context) ([]domain.Entry, error) {
	status, body, err := c.doRequest(ctx, http.MethodGet, "/files")
	if err != nil {
		return nil, domain.ErrServiceUnavailable
	}
	if status != http.StatusOK {
		c.logger.Error("list request error", "status", status, "body", string(body))
		return nil, domain.ErrServiceUnavailable
	}

	records, err := decodeList(body)
	if err != nil {
		c.logger.Error("list parse error", "error", err, "bodyLen", len(body))
		return nil, domain.ErrServiceUnavailable
	}

	return mapEntries(records, c.owner), nil
}

// Delete removes the entry with the given server id.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/files/%s", url.PathEscape(id))
	status, body, err := c.doRequest(ctx, http.MethodDelete, path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrDeleteFailed, id)
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	default:
		c.logger.Error("delete request error", "id", id, "status", status, "body", string(body))
		return fmt.Errorf("%w: %s", domain.ErrDeleteFailed, id)
	}
}

// Upload posts all files in one multipart request against the given
// collection. The response carries one verdict per file; a batch can
// succeed partially.
func (c *Client) Upload(ctx context.Context, collection string, files []domain.LocalFile) ([]domain.FileResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("collection", collection); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		fd, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, f.Name, err)
		}
		_, err = io.Copy(part, fd)
		fd.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	reqURL := fmt.Sprintf("%s/upload-files", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("upload request", "url", reqURL, "files", len(files), "collection", collection)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upload request failed", "error", err)
		return nil, domain.ErrUploadFailed
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrUploadFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.text() != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrUploadFailed, errResp.text())
		}
		c.logger.Error("upload request error", "status", resp.StatusCode, "body", string(body))
		return nil, domain.ErrUploadFailed
	}

	var ur uploadResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		c.logger.Error("upload parse error", "error", err, "bodyLen", len(body))
		return nil, domain.ErrUploadFailed
	}

	return mapUploadResults(ur.Files, c.owner), nil
}
