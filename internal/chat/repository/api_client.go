package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	errprocess "messenger_service/pkg/err"
)

// APIClient JSON client of the generic REST backend.
// No timeout and no retry: callers cancel through ctx.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient httpClient may be nil
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL backend root
func (c *APIClient) BaseURL() string { return c.baseURL }

// List GET /collection?filter into out (a pointer to a slice)
func (c *APIClient) List(ctx context.Context, collection string, filter url.Values, out any) error {
	return c.do(ctx, http.MethodGet, "/"+collection, filter, nil, out)
}

// Get GET /collection/id; a 404 is reported as NotFoundError
func (c *APIClient) Get(ctx context.Context, collection, id string, out any) error {
	err := c.do(ctx, http.MethodGet, "/"+collection+"/"+url.PathEscape(id), nil, nil, out)
	var te *errprocess.TransportError
	if asTransport(err, &te) && te.Status == http.StatusNotFound {
		return errprocess.NotFound(collection, id)
	}
	return err
}

// Create POST /collection
func (c *APIClient) Create(ctx context.Context, collection string, in, out any) error {
	return c.do(ctx, http.MethodPost, "/"+collection, nil, in, out)
}

// Patch PATCH /collection/id, partial update
func (c *APIClient) Patch(ctx context.Context, collection, id string, in, out any) error {
	return c.do(ctx, http.MethodPatch, "/"+collection+"/"+url.PathEscape(id), nil, in, out)
}

func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fail := func(status int, err error) error {
		return &errprocess.TransportError{Method: method, URL: target, Status: status, Err: err}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fail(0, fmt.Errorf("encode body: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = resp.Status
		}
		return fail(resp.StatusCode, errors.New(text))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode body: %w", err))
	}
	return nil
}
