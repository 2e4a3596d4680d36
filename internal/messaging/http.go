package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MessagePath is the route the daemon accepts requests on.
const MessagePath = "/message"

// HTTP delivers requests to a running daemon.
type HTTP struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTP returns a transport posting to the daemon at baseURL. An empty
// token sends no Authorization header.
func NewHTTP(baseURL, token string) *HTTP {
	return &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (h *HTTP) WithHTTPClient(c *http.Client) *HTTP {
	h.httpClient = c
	return h
}

func (h *HTTP) Do(ctx context.Context, req Request) (Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("marshalling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+MessagePath, bytes.NewReader(data))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.token)
	}

	httpResp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("daemon not reachable, is historyremover serve running? (%w)", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return Response{}, fmt.Errorf("daemon returned %d: %s", httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decoding response: %w", err)
	}
	return resp, nil
}
