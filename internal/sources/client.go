package sources

import (
	"context"
	"io"
	"net/http"

	"wallshift/internal/providers"
	"wallshift/internal/structures"
)

// Client wraps the shared HTTP client with the error mapping every adapter
// needs. API calls buffer the body; image downloads stream it.
type Client struct {
	http      *http.Client
	userAgent string
	logger    providers.Logger
}

func NewClient(conf *structures.Config, httpClient *http.Client, logger providers.Logger) *Client {
	return &Client{
		http:      httpClient,
		userAgent: conf.HTTP.UserAgent,
		logger:    logger,
	}
}

// GetJSON performs one API request and returns the body and response
// headers. Transport errors map to ErrNetwork, non-2xx statuses through
// classifyStatus.
func (c *Client) GetJSON(ctx context.Context, source, url string, headers map[string]string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, &FetchError{Kind: ErrNetwork, Source: source, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &FetchError{Kind: ErrNetwork, Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.Header, classifyStatus(source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, &FetchError{Kind: ErrNetwork, Source: source, Err: err}
	}
	return body, resp.Header, nil
}

// Download streams url into w and returns the number of bytes written.
func (c *Client) Download(ctx context.Context, source, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &FetchError{Kind: ErrNetwork, Source: source, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &FetchError{Kind: ErrNetwork, Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, classifyStatus(source, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &FetchError{Kind: ErrNetwork, Source: source, Err: err}
	}
	return n, nil
}
