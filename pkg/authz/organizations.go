package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
)

const organizationsPath = "/authz/organizations"

// CreateOrganization creates an organization.
func (c *Client) CreateOrganization(ctx context.Context, organization Organization) (*Organization, error) {
	var created Organization
	if err := c.t.Post(ctx, organizationsPath, organization, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetOrganization fetches an organization by ID.
func (c *Client) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var organization Organization
	if err := c.t.Get(ctx, organizationsPath+"/"+id.String(), nil, &organization); err != nil {
		return nil, err
	}
	return &organization, nil
}

// ListOrganizations returns one page of organizations.
func (c *Client) ListOrganizations(ctx context.Context, limit int, startingAfter uuid.UUID) ([]Organization, error) {
	var page listResponse[Organization]
	if err := c.t.Get(ctx, organizationsPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// DeleteOrganization deletes an organization. It returns false without
// error when the organization was already absent.
func (c *Client) DeleteOrganization(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, organizationsPath+"/"+id.String(), nil)
}
