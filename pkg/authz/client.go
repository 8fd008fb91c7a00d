package authz

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
)

// Client calls the authorization endpoints of one tenant.
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

const checkAttributePath = "/authz/checkattribute"

// CheckAttribute reports whether source holds the named attribute on
// target, directly or through the graph.
func (c *Client) CheckAttribute(ctx context.Context, sourceObjectID, targetObjectID uuid.UUID, attribute string) (bool, error) {
	q := url.Values{}
	q.Set("source_object_id", sourceObjectID.String())
	q.Set("target_object_id", targetObjectID.String())
	q.Set("attribute", attribute)
	var resp struct {
		HasAttribute bool `json:"has_attribute"`
	}
	if err := c.t.Get(ctx, checkAttributePath, q, &resp); err != nil {
		return false, err
	}
	return resp.HasAttribute, nil
}
