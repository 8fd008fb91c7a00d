package tokenizer

import (
	"github.com/userclouds/sdk-go/pkg/transport"
)

// Client calls the tokenizer endpoints of one tenant.
type Client struct {
	t *transport.Client
}

// NewClient wraps an authenticated transport.
func NewClient(t *transport.Client) *Client {
	return &Client{t: t}
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}
