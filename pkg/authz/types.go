package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const (
	objectTypesPath = "/authz/objecttypes"
	edgeTypesPath   = "/authz/edgetypes"
)

// CreateObjectType creates an object type. With ifNotExists set, an
// identical existing type's ID is adopted instead of failing with a
// conflict.
func (c *Client) CreateObjectType(ctx context.Context, objectType ObjectType, ifNotExists bool) (*ObjectType, error) {
	var created ObjectType
	err := c.t.Post(ctx, objectTypesPath, objectType, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			objectType.ID = id
			return &objectType, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetObjectType fetches an object type by ID.
func (c *Client) GetObjectType(ctx context.Context, id uuid.UUID) (*ObjectType, error) {
	var objectType ObjectType
	if err := c.t.Get(ctx, objectTypesPath+"/"+id.String(), nil, &objectType); err != nil {
		return nil, err
	}
	return &objectType, nil
}

// ListObjectTypes returns one page of object types.
func (c *Client) ListObjectTypes(ctx context.Context, limit int, startingAfter uuid.UUID) ([]ObjectType, error) {
	var page listResponse[ObjectType]
	if err := c.t.Get(ctx, objectTypesPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// DeleteObjectType deletes an object type. It returns false without
// error when the type was already absent.
func (c *Client) DeleteObjectType(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, objectTypesPath+"/"+id.String(), nil)
}

// CreateEdgeType creates an edge type. With ifNotExists set, an
// identical existing type's ID is adopted instead of failing with a
// conflict.
func (c *Client) CreateEdgeType(ctx context.Context, edgeType EdgeType, ifNotExists bool) (*EdgeType, error) {
	var created EdgeType
	err := c.t.Post(ctx, edgeTypesPath, edgeType, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			edgeType.ID = id
			return &edgeType, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetEdgeType fetches an edge type by ID.
func (c *Client) GetEdgeType(ctx context.Context, id uuid.UUID) (*EdgeType, error) {
	var edgeType EdgeType
	if err := c.t.Get(ctx, edgeTypesPath+"/"+id.String(), nil, &edgeType); err != nil {
		return nil, err
	}
	return &edgeType, nil
}

// ListEdgeTypes returns one page of edge types.
func (c *Client) ListEdgeTypes(ctx context.Context, limit int, startingAfter uuid.UUID) ([]EdgeType, error) {
	var page listResponse[EdgeType]
	if err := c.t.Get(ctx, edgeTypesPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// DeleteEdgeType deletes an edge type. It returns false without error
// when the type was already absent.
func (c *Client) DeleteEdgeType(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, edgeTypesPath+"/"+id.String(), nil)
}
