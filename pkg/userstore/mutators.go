package userstore

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const (
	mutatorsConfigPath  = "/userstore/config/mutators"
	mutatorsExecutePath = "/userstore/api/mutators"
)

type mutatorBody struct {
	Mutator Mutator `json:"mutator"`
}

// CreateMutator creates a mutator. With ifNotExists set, an identical
// existing mutator's ID is adopted instead of failing with a conflict.
func (c *Client) CreateMutator(ctx context.Context, mutator Mutator, ifNotExists bool) (*Mutator, error) {
	var created Mutator
	err := c.t.Post(ctx, mutatorsConfigPath, mutatorBody{Mutator: mutator}, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			mutator.ID = id
			return &mutator, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetMutator fetches a mutator by ID.
func (c *Client) GetMutator(ctx context.Context, id uuid.UUID) (*Mutator, error) {
	var mutator Mutator
	if err := c.t.Get(ctx, mutatorsConfigPath+"/"+id.String(), nil, &mutator); err != nil {
		return nil, err
	}
	return &mutator, nil
}

// ListMutators returns one page of mutators.
func (c *Client) ListMutators(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Mutator, error) {
	var page listResponse[Mutator]
	if err := c.t.Get(ctx, mutatorsConfigPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdateMutator replaces a mutator's definition; the server bumps its
// version.
func (c *Client) UpdateMutator(ctx context.Context, mutator Mutator) (*Mutator, error) {
	var updated Mutator
	if err := c.t.Put(ctx, mutatorsConfigPath+"/"+mutator.ID.String(), mutatorBody{Mutator: mutator}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMutator deletes a mutator. It returns false without error when
// the mutator was already absent.
func (c *Client) DeleteMutator(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, mutatorsConfigPath+"/"+id.String(), nil)
}

type executeMutatorRequest struct {
	MutatorID      uuid.UUID                   `json:"mutator_id"`
	Context        map[string]any              `json:"context"`
	SelectorValues []any                       `json:"selector_values"`
	RowData        map[string]ValueAndPurposes `json:"row_data"`
}

// ExecuteMutator writes rowData (column name to value and purposes) to
// the users matched by the mutator's selector. The response shape is
// server-defined and returned undecoded.
func (c *Client) ExecuteMutator(ctx context.Context, mutatorID uuid.UUID, accessContext map[string]any, selectorValues []any, rowData map[string]ValueAndPurposes) (json.RawMessage, error) {
	req := executeMutatorRequest{
		MutatorID:      mutatorID,
		Context:        accessContext,
		SelectorValues: selectorValues,
		RowData:        rowData,
	}
	var out json.RawMessage
	if err := c.t.Post(ctx, mutatorsExecutePath, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
