package mdtree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPParseRequest configures HTTPParse.
type HTTPParseRequest struct {
	URL     string
	Client  *http.Client
	Strict  bool
	Options []Option
}

// FetchRequest configures Fetch.
type FetchRequest struct {
	URL    string
	Client *http.Client
}

// Fetch opens an HTTP(S) document body. Non-2xx responses are errors; the
// caller closes the returned body.
func Fetch(ctx context.Context, req FetchRequest) (io.ReadCloser, error) {
	if req.URL == "" {
		return nil, errors.New("URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return resp.Body, nil
}

// HTTPParse fetches a document over HTTP(S) and parses it.
func HTTPParse(ctx context.Context, req HTTPParseRequest) (*Document, error) {
	body, err := Fetch(ctx, FetchRequest{URL: req.URL, Client: req.Client})
	if err != nil {
		return nil, fmt.Errorf("http parse: %w", err)
	}
	defer body.Close()
	return Parse(ParseRequest{
		Reader:  body,
		Strict:  req.Strict,
		Options: req.Options,
	})
}
