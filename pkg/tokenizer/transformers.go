package tokenizer

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const transformersPath = "/tokenizer/policies/transformation"

type transformerBody struct {
	Transformer Transformer `json:"transformer"`
}

// CreateTransformer creates a transformer. With ifNotExists set, an
// identical existing transformer's ID is adopted instead of failing
// with a conflict.
func (c *Client) CreateTransformer(ctx context.Context, transformer Transformer, ifNotExists bool) (*Transformer, error) {
	var created Transformer
	err := c.t.Post(ctx, transformersPath, transformerBody{Transformer: transformer}, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			transformer.ID = id
			return &transformer, nil
		}
		return nil, err
	}
	return &created, nil
}

// ListTransformers returns one page of transformers.
func (c *Client) ListTransformers(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Transformer, error) {
	var page listResponse[Transformer]
	if err := c.t.Get(ctx, transformersPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Transformers are immutable, so there is no update method.

// DeleteTransformer deletes a transformer. It returns false without
// error when the transformer was already absent.
func (c *Client) DeleteTransformer(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, transformersPath+"/"+id.String(), nil)
}
