package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const objectsPath = "/authz/objects"

// CreateObject creates an object. With ifNotExists set, an identical
// existing object's ID is adopted instead of failing with a conflict.
func (c *Client) CreateObject(ctx context.Context, object Object, ifNotExists bool) (*Object, error) {
	var created Object
	err := c.t.Post(ctx, objectsPath, object, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			object.ID = id
			return &object, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetObject fetches an object by ID.
func (c *Client) GetObject(ctx context.Context, id uuid.UUID) (*Object, error) {
	var object Object
	if err := c.t.Get(ctx, objectsPath+"/"+id.String(), nil, &object); err != nil {
		return nil, err
	}
	return &object, nil
}

// ListObjects returns one page of objects.
func (c *Client) ListObjects(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Object, error) {
	var page listResponse[Object]
	if err := c.t.Get(ctx, objectsPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// DeleteObject deletes an object and its edges. It returns false
// without error when the object was already absent.
func (c *Client) DeleteObject(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, objectsPath+"/"+id.String(), nil)
}
