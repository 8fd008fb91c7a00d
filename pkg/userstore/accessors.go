package userstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const (
	accessorsConfigPath  = "/userstore/config/accessors"
	accessorsExecutePath = "/userstore/api/accessors"
)

type accessorBody struct {
	Accessor Accessor `json:"accessor"`
}

// CreateAccessor creates an accessor. With ifNotExists set, an
// identical existing accessor's ID is adopted instead of failing with a
// conflict.
func (c *Client) CreateAccessor(ctx context.Context, accessor Accessor, ifNotExists bool) (*Accessor, error) {
	var created Accessor
	err := c.t.Post(ctx, accessorsConfigPath, accessorBody{Accessor: accessor}, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			accessor.ID = id
			return &accessor, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetAccessor fetches an accessor by ID.
func (c *Client) GetAccessor(ctx context.Context, id uuid.UUID) (*Accessor, error) {
	var accessor Accessor
	if err := c.t.Get(ctx, accessorsConfigPath+"/"+id.String(), nil, &accessor); err != nil {
		return nil, err
	}
	return &accessor, nil
}

// ListAccessors returns one page of accessors.
func (c *Client) ListAccessors(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Accessor, error) {
	var page listResponse[Accessor]
	if err := c.t.Get(ctx, accessorsConfigPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdateAccessor replaces an accessor's definition; the server bumps its
// version.
func (c *Client) UpdateAccessor(ctx context.Context, accessor Accessor) (*Accessor, error) {
	var updated Accessor
	if err := c.t.Put(ctx, accessorsConfigPath+"/"+accessor.ID.String(), accessorBody{Accessor: accessor}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccessor deletes an accessor. It returns false without error
// when the accessor was already absent.
func (c *Client) DeleteAccessor(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, accessorsConfigPath+"/"+id.String(), nil)
}

type executeAccessorRequest struct {
	AccessorID     uuid.UUID      `json:"accessor_id"`
	Context        map[string]any `json:"context"`
	SelectorValues []any          `json:"selector_values"`
}

// ExecuteAccessor runs an accessor against the users matched by its
// selector. Each returned row is the JSON encoding of the accessor's
// configured columns after their transformers ran.
func (c *Client) ExecuteAccessor(ctx context.Context, accessorID uuid.UUID, accessContext map[string]any, selectorValues []any) ([]string, error) {
	req := executeAccessorRequest{
		AccessorID:     accessorID,
		Context:        accessContext,
		SelectorValues: selectorValues,
	}
	var rows []string
	if err := c.t.Post(ctx, accessorsExecutePath, req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DownloadUserstoreSDK fetches the generated Python SDK for this
// tenant's userstore configuration.
func (c *Client) DownloadUserstoreSDK(ctx context.Context) (string, error) {
	return c.t.Download(ctx, "/userstore/download/codegensdk.py")
}
