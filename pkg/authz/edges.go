package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const edgesPath = "/authz/edges"

// CreateEdge creates an edge. With ifNotExists set, an identical
// existing edge's ID is adopted instead of failing with a conflict.
func (c *Client) CreateEdge(ctx context.Context, edge Edge, ifNotExists bool) (*Edge, error) {
	var created Edge
	err := c.t.Post(ctx, edgesPath, edge, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			edge.ID = id
			return &edge, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetEdge fetches an edge by ID.
func (c *Client) GetEdge(ctx context.Context, id uuid.UUID) (*Edge, error) {
	var edge Edge
	if err := c.t.Get(ctx, edgesPath+"/"+id.String(), nil, &edge); err != nil {
		return nil, err
	}
	return &edge, nil
}

// ListEdges returns one page of edges.
func (c *Client) ListEdges(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Edge, error) {
	var page listResponse[Edge]
	if err := c.t.Get(ctx, edgesPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// DeleteEdge deletes an edge. It returns false without error when the
// edge was already absent.
func (c *Client) DeleteEdge(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, edgesPath+"/"+id.String(), nil)
}
