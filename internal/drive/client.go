// Package drive uploads prescription files to the configured Drive folder
// through the multipart upload REST endpoint.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/config"
)

const uploadURL = "https://www.googleapis.com/upload/drive/v3/files?uploadType=multipart&fields=id,webViewLink"

// UploadResult identifies a stored prescription file.
type UploadResult struct {
	FileID  string
	FileURL string
}

// Uploader is the file-storage contract the prescription handler needs.
type Uploader interface {
	Configured() bool
	Upload(ctx context.Context, filename, mimeType string, content []byte) (*UploadResult, error)
}

// Client uploads files with a bearer token
type Client struct {
	uploadURL  string
	folderID   string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Drive upload client
func NewClient(cfg config.DriveConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		uploadURL:  uploadURL,
		folderID:   cfg.FolderID,
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether uploads can be performed.
func (c *Client) Configured() bool {
	return c.folderID != "" && c.token != ""
}

// Upload stores a file in the prescription folder and returns its ID and
// shareable link.
func (c *Client) Upload(ctx context.Context, filename, mimeType string, content []byte) (*UploadResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("drive client not configured: folder ID and token required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, err
	}
	meta := map[string]interface{}{
		"name":    filename,
		"parents": []string{c.folderID},
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return nil, err
	}

	fileHeader := textproto.MIMEHeader{}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	fileHeader.Set("Content-Type", mimeType)
	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		return nil, err
	}
	if _, err := filePart.Write(content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Drive upload request failed", zap.Error(err), zap.String("filename", filename))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("drive API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		ID          string `json:"id"`
		WebViewLink string `json:"webViewLink"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode drive response: %w", err)
	}

	result := &UploadResult{FileID: parsed.ID, FileURL: parsed.WebViewLink}
	if result.FileURL == "" {
		result.FileURL = "https://drive.google.com/file/d/" + parsed.ID + "/view"
	}
	return result, nil
}
