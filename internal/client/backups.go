package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"venuectl/internal/api"
)

// ListBackups returns the backend's backup archives.
func (c *Client) ListBackups(ctx context.Context) ([]api.Backup, error) {
	var payload api.BackupListResponse
	if err := c.get(ctx, apiPrefix+"/backups", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Backups, nil
}

// BackupStatus reports in-progress backup or restore activity.
func (c *Client) BackupStatus(ctx context.Context) (*api.BackupStatus, error) {
	var payload api.BackupStatus
	if err := c.get(ctx, apiPrefix+"/backups/status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DatabaseReport summarizes the backend's live database contents.
func (c *Client) DatabaseReport(ctx context.Context) (*api.DatabaseReport, error) {
	var payload api.DatabaseReport
	if err := c.get(ctx, apiPrefix+"/backups/current-database-report", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateBackup asks the backend to snapshot its database now.
func (c *Client) CreateBackup(ctx context.Context) (*api.Backup, error) {
	var payload api.Backup
	if err := c.post(ctx, apiPrefix+"/backups/create", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteBackup removes one archive by filename.
func (c *Client) DeleteBackup(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return errors.New("backup filename required")
	}
	return c.delete(ctx, apiPrefix+"/backups/"+filename)
}

// RestoreBackup restores the backend database from the named archive.
func (c *Client) RestoreBackup(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return errors.New("backup filename required")
	}
	return c.post(ctx, apiPrefix+"/backups/restore/"+filename, nil, nil)
}

// DownloadBackup streams the named archive into dst.
func (c *Client) DownloadBackup(ctx context.Context, filename string, dst io.Writer) (int64, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return 0, errors.New("backup filename required")
	}
	resp, err := c.send(ctx, c.streaming, http.MethodGet, apiPrefix+"/backups/"+filename, nil, nil, "", true)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return 0, c.statusError(http.MethodGet, apiPrefix+"/backups/"+filename, resp)
	}
	written, err := io.Copy(dst, resp.Body)
	if err != nil {
		return written, fmt.Errorf("download backup: %w", err)
	}
	return written, nil
}

// UploadBackup sends a local archive to the backend's backup store.
func (c *Client) UploadBackup(ctx context.Context, path string) (*api.Backup, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("backup path required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	resp, err := c.send(ctx, c.http, http.MethodPost, apiPrefix+"/backups/upload", nil, buf.Bytes(), writer.FormDataContentType(), true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, c.statusError(http.MethodPost, apiPrefix+"/backups/upload", resp)
	}
	var payload api.Backup
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &payload, nil
}
