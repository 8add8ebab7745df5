package upstream

import (
	"context"
	"fmt"

	"github.com/uzlearn/center-admin-api/internal/models"
)

// ListMedia fetches the full media library.
func (c *Client) ListMedia(ctx context.Context) ([]models.MediaRecord, error) {
	var out []models.MediaRecord
	if err := c.getJSON(ctx, "/media", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadMedia ships one gallery asset. The content API wants the video flag
// as 0/1 alongside the original filename.
func (c *Client) UploadMedia(ctx context.Context, file FileInput, isVideo bool) (*models.MediaRecord, error) {
	var out models.MediaRecord
	flag := "0"
	if isVideo {
		flag = "1"
	}
	f := NewForm().
		Set("is_video", flag).
		Set("name", file.Filename)
	f.AddFile("file", file.Filename, file.Content)
	if err := c.doMultipart(ctx, "POST", "/media", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMedia fetches one media record by id.
func (c *Client) GetMedia(ctx context.Context, id uint64) (*models.MediaRecord, error) {
	var out models.MediaRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/media/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MediaUpdate carries the mutable media fields; the replacement file rides
// along as a multipart part when set.
type MediaUpdate struct {
	Name    string
	IsVideo bool
	File    *FileInput
}

// UpdateMedia patches a media record.
func (c *Client) UpdateMedia(ctx context.Context, id uint64, in MediaUpdate) (*models.MediaRecord, error) {
	var out models.MediaRecord
	flag := "0"
	if in.IsVideo {
		flag = "1"
	}
	f := NewForm().
		Set("name", in.Name).
		Set("is_video", flag)
	if in.File != nil {
		f.AddFile("file", in.File.Filename, in.File.Content)
	}
	if err := c.doMultipart(ctx, "PATCH", fmt.Sprintf("/media/%d", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMedia removes a media record and its stored asset.
func (c *Client) DeleteMedia(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/media/%d", id), nil, nil)
}
