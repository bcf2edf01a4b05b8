package rest

import "context"

// Ping - checks the authority's health endpoint.
func (that *Client) Ping(ctx context.Context) error {
	_, err := that.get(ctx, "/health")
	return err
}
