package userstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const columnsPath = "/userstore/config/columns"

type columnBody struct {
	Column Column `json:"column"`
}

// CreateColumn creates a column. With ifNotExists set, creating a
// column identical to an existing one adopts the existing column's ID
// instead of failing with a conflict.
func (c *Client) CreateColumn(ctx context.Context, column Column, ifNotExists bool) (*Column, error) {
	var created Column
	err := c.t.Post(ctx, columnsPath, columnBody{Column: column}, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			column.ID = id
			return &column, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetColumn fetches a column by ID.
func (c *Client) GetColumn(ctx context.Context, id uuid.UUID) (*Column, error) {
	var column Column
	if err := c.t.Get(ctx, columnsPath+"/"+id.String(), nil, &column); err != nil {
		return nil, err
	}
	return &column, nil
}

// ListColumns returns one page of columns. A limit of 0 uses the server
// default; pass the last seen ID as startingAfter to continue.
func (c *Client) ListColumns(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Column, error) {
	var page listResponse[Column]
	if err := c.t.Get(ctx, columnsPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdateColumn replaces a column's definition and returns the server's
// canonical copy.
func (c *Client) UpdateColumn(ctx context.Context, column Column) (*Column, error) {
	var updated Column
	if err := c.t.Put(ctx, columnsPath+"/"+column.ID.String(), columnBody{Column: column}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteColumn deletes a column. It returns false without error when
// the column was already absent.
func (c *Client) DeleteColumn(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, columnsPath+"/"+id.String(), nil)
}
