package upstream

import (
	"context"
	"fmt"

	"github.com/uzlearn/center-admin-api/internal/models"
)

// ListMessages fetches all visitor messages.
func (c *Client) ListMessages(ctx context.Context) ([]models.Message, error) {
	var out []models.Message
	if err := c.getJSON(ctx, "/message", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMessage fetches one visitor message.
func (c *Client) GetMessage(ctx context.Context, id uint64) (*models.Message, error) {
	var out models.Message
	if err := c.getJSON(ctx, fmt.Sprintf("/message/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMessageChecked flips the read flag on a message.
func (c *Client) SetMessageChecked(ctx context.Context, id uint64, checked bool) (*models.Message, error) {
	var out models.Message
	body := map[string]bool{"checked": checked}
	if err := c.doJSON(ctx, "PATCH", fmt.Sprintf("/message/%d", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMessage removes a visitor message.
func (c *Client) DeleteMessage(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/message/%d", id), nil, nil)
}
