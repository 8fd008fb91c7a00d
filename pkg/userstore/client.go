package userstore

import (
	"github.com/userclouds/sdk-go/pkg/transport"
)

// Client exposes the userstore and authn endpoints of one tenant.
type Client struct {
	t *transport.Client
}

// NewClient creates a userstore client on an authenticated transport.
func NewClient(t *transport.Client) *Client {
	return &Client{t: t}
}

// listResponse is the envelope paginated list endpoints return.
type listResponse[T any] struct {
	Data []T `json:"data"`
}
