package messaging

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/runnerr0/historyremover/internal/history"
)

// Doer delivers one Request and returns the raw Response.
type Doer interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Handler is anything that answers requests in-process, normally the
// background router.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// RemoteError is returned when the receiver answered with success:false.
type RemoteError struct {
	Action  Action
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Client sends requests over a Doer and turns failed responses into errors.
type Client struct {
	transport Doer
}

// NewClient returns a Client sending over transport.
func NewClient(transport Doer) *Client {
	return &Client{transport: transport}
}

// Send assigns a request ID if needed, delivers req and returns the
// response. A response with success:false is returned as a *RemoteError.
func (c *Client) Send(ctx context.Context, req Request) (Response, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("send %s: %w", req.Action, err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return resp, &RemoteError{Action: req.Action, Message: msg}
	}
	return resp, nil
}

// SearchHistory runs a history query. A nil params uses the receiver's
// defaults.
func (c *Client) SearchHistory(ctx context.Context, params *SearchParams) ([]history.Record, error) {
	resp, err := c.Send(ctx, Request{Action: ActionSearchHistory, Params: params})
	if err != nil {
		return nil, err
	}
	records := []history.Record{}
	if err := resp.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteURLs deletes every visit to each of urls and reports the counts.
func (c *Client) DeleteURLs(ctx context.Context, urls []string) (*DeletionCounts, error) {
	resp, err := c.Send(ctx, Request{Action: ActionDeleteURLs, URLs: urls})
	if err != nil {
		return nil, err
	}
	if resp.DeletionCounts == nil {
		return &DeletionCounts{Errors: []DeletionError{}}, nil
	}
	return resp.DeletionCounts, nil
}

// DeleteByTimeRange deletes all history between start and end, in epoch
// milliseconds.
func (c *Client) DeleteByTimeRange(ctx context.Context, start, end int64) error {
	_, err := c.Send(ctx, Request{Action: ActionDeleteByTimeRange, StartTime: &start, EndTime: &end})
	return err
}

// GetBookmarkedURLs returns the deduplicated URLs of all bookmarks.
func (c *Client) GetBookmarkedURLs(ctx context.Context) ([]string, error) {
	resp, err := c.Send(ctx, Request{Action: ActionGetBookmarks})
	if err != nil {
		return nil, err
	}
	urls := []string{}
	if err := resp.Decode(&urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// GetSettings returns the persisted settings, or the defaults.
func (c *Client) GetSettings(ctx context.Context) (history.Settings, error) {
	resp, err := c.Send(ctx, Request{Action: ActionGetSettings})
	if err != nil {
		return history.Settings{}, err
	}
	s := history.DefaultSettings()
	if err := resp.Decode(&s); err != nil {
		return history.Settings{}, err
	}
	return s, nil
}

// SaveSettings replaces the persisted settings with s.
func (c *Client) SaveSettings(ctx context.Context, s history.Settings) error {
	_, err := c.Send(ctx, Request{Action: ActionSaveSettings, Settings: &s})
	return err
}
