package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/runnerr0/historyremover/internal/history"
)

// Action names one of the operations the background router performs.
type Action string

const (
	ActionSearchHistory     Action = "searchHistory"
	ActionDeleteURLs        Action = "deleteUrls"
	ActionDeleteByTimeRange Action = "deleteByTimeRange"
	ActionGetBookmarks      Action = "getBookmarks"
	ActionGetSettings       Action = "getSettings"
	ActionSaveSettings      Action = "saveSettings"
)

// SearchParams are the caller-supplied options of a searchHistory request.
// Nil fields fall back to the router's defaults.
type SearchParams struct {
	Text       string `json:"text,omitempty"`
	StartTime  *int64 `json:"startTime,omitempty"`
	EndTime    *int64 `json:"endTime,omitempty"`
	MaxResults *int   `json:"maxResults,omitempty"`
}

// Request is the message sent to the router. Only the fields of the named
// action are meaningful.
type Request struct {
	ID     string `json:"id,omitempty"`
	Action Action `json:"action"`

	Params    *SearchParams     `json:"params,omitempty"`
	URLs      []string          `json:"urls,omitempty"`
	StartTime *int64            `json:"startTime,omitempty"`
	EndTime   *int64            `json:"endTime,omitempty"`
	Settings  *history.Settings `json:"settings,omitempty"`
}

// UnmarshalJSON decodes a Request. A urls value that is not a list of
// strings decodes as no URLs, which deleteUrls rejects.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	aux := struct {
		*plain
		URLs json.RawMessage `json:"urls,omitempty"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.URLs = nil
	if len(aux.URLs) > 0 {
		var urls []string
		if err := json.Unmarshal(aux.URLs, &urls); err == nil {
			r.URLs = urls
		}
	}
	return nil
}

// DeletionError attributes a failure to the URL it happened on.
type DeletionError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// DeletionCounts is the deleteUrls part of a Response.
type DeletionCounts struct {
	Deleted int             `json:"deleted"`
	Failed  int             `json:"failed"`
	Errors  []DeletionError `json:"errors"`
}

// Response is the router's reply. Data is set on success, Error on failure.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`

	*DeletionCounts
}

// OK builds a successful response carrying data, which may be nil.
func OK(data interface{}) (Response, error) {
	if data == nil {
		return Response{Success: true}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Response{}, fmt.Errorf("encode response data: %w", err)
	}
	return Response{Success: true, Data: raw}, nil
}

// Fail builds a failed response from err.
func Fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// Decode unmarshals Data into v.
func (r Response) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
