package userstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const purposesPath = "/userstore/config/purposes"

type purposeBody struct {
	Purpose Purpose `json:"purpose"`
}

// CreatePurpose creates a purpose. With ifNotExists set, an identical
// existing purpose's ID is adopted instead of failing with a conflict.
func (c *Client) CreatePurpose(ctx context.Context, purpose Purpose, ifNotExists bool) (*Purpose, error) {
	var created Purpose
	err := c.t.Post(ctx, purposesPath, purposeBody{Purpose: purpose}, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			purpose.ID = id
			return &purpose, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetPurpose fetches a purpose by ID.
func (c *Client) GetPurpose(ctx context.Context, id uuid.UUID) (*Purpose, error) {
	var purpose Purpose
	if err := c.t.Get(ctx, purposesPath+"/"+id.String(), nil, &purpose); err != nil {
		return nil, err
	}
	return &purpose, nil
}

// ListPurposes returns one page of purposes.
func (c *Client) ListPurposes(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Purpose, error) {
	var page listResponse[Purpose]
	if err := c.t.Get(ctx, purposesPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdatePurpose replaces a purpose and returns the server's canonical
// copy.
func (c *Client) UpdatePurpose(ctx context.Context, purpose Purpose) (*Purpose, error) {
	var updated Purpose
	if err := c.t.Put(ctx, purposesPath+"/"+purpose.ID.String(), purposeBody{Purpose: purpose}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePurpose deletes a purpose. It returns false without error when
// the purpose was already absent.
func (c *Client) DeletePurpose(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, purposesPath+"/"+id.String(), nil)
}
