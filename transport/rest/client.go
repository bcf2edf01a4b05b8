package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rocketscienceinc/connect4-client/internal/apperror"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20
)

// Client talks to the request/response side of the authority.
// It holds no state between calls.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
	}
}

// get - issues one GET and returns the body of a 200 answer.
func (that *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", apperror.ErrRankingUnavailable, err)
	}

	resp, err := that.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrRankingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", apperror.ErrRankingUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: status %d", apperror.ErrRankingUnavailable, path, resp.StatusCode)
	}

	return body, nil
}
