package tokenizer

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
	"github.com/userclouds/sdk-go/pkg/uctypes"
)

const (
	accessPolicyTemplatesPath = "/tokenizer/policies/accesstemplate"
	accessPoliciesPath        = "/tokenizer/policies/access"
)

type accessPolicyTemplateBody struct {
	AccessPolicyTemplate AccessPolicyTemplate `json:"access_policy_template"`
}

type accessPolicyBody struct {
	AccessPolicy AccessPolicy `json:"access_policy"`
}

// CreateAccessPolicyTemplate creates a template. With ifNotExists set,
// an identical existing template's ID is adopted instead of failing
// with a conflict.
func (c *Client) CreateAccessPolicyTemplate(ctx context.Context, template AccessPolicyTemplate, ifNotExists bool) (*AccessPolicyTemplate, error) {
	var created AccessPolicyTemplate
	err := c.t.Post(ctx, accessPolicyTemplatesPath, accessPolicyTemplateBody{AccessPolicyTemplate: template}, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			template.ID = id
			return &template, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetAccessPolicyTemplate fetches a template by ID or name.
func (c *Client) GetAccessPolicyTemplate(ctx context.Context, rid uctypes.ResourceID) (*AccessPolicyTemplate, error) {
	var template AccessPolicyTemplate
	if err := c.getByResourceID(ctx, accessPolicyTemplatesPath, rid, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// ListAccessPolicyTemplates returns one page of templates.
func (c *Client) ListAccessPolicyTemplates(ctx context.Context, limit int, startingAfter uuid.UUID) ([]AccessPolicyTemplate, error) {
	var page listResponse[AccessPolicyTemplate]
	if err := c.t.Get(ctx, accessPolicyTemplatesPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdateAccessPolicyTemplate replaces a template's definition; the
// server bumps its version.
func (c *Client) UpdateAccessPolicyTemplate(ctx context.Context, template AccessPolicyTemplate) (*AccessPolicyTemplate, error) {
	var updated AccessPolicyTemplate
	if err := c.t.Put(ctx, accessPolicyTemplatesPath+"/"+template.ID.String(), accessPolicyTemplateBody{AccessPolicyTemplate: template}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccessPolicyTemplate deletes one version of a template. It
// returns false without error when that version was already absent.
func (c *Client) DeleteAccessPolicyTemplate(ctx context.Context, id uuid.UUID, version int) (bool, error) {
	q := url.Values{}
	q.Set("template_version", strconv.Itoa(version))
	return c.t.Delete(ctx, accessPolicyTemplatesPath+"/"+id.String(), q)
}

// CreateAccessPolicy creates an access policy. With ifNotExists set, an
// identical existing policy's ID is adopted instead of failing with a
// conflict.
func (c *Client) CreateAccessPolicy(ctx context.Context, policy AccessPolicy, ifNotExists bool) (*AccessPolicy, error) {
	var created AccessPolicy
	err := c.t.Post(ctx, accessPoliciesPath, accessPolicyBody{AccessPolicy: policy}, &created)
	if err != nil {
		if id, ok := ucerr.IdenticalID(err); ok && ifNotExists {
			policy.ID = id
			return &policy, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetAccessPolicy fetches an access policy by ID or name.
func (c *Client) GetAccessPolicy(ctx context.Context, rid uctypes.ResourceID) (*AccessPolicy, error) {
	var policy AccessPolicy
	if err := c.getByResourceID(ctx, accessPoliciesPath, rid, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// ListAccessPolicies returns one page of access policies.
func (c *Client) ListAccessPolicies(ctx context.Context, limit int, startingAfter uuid.UUID) ([]AccessPolicy, error) {
	var page listResponse[AccessPolicy]
	if err := c.t.Get(ctx, accessPoliciesPath, transport.ListQuery(limit, startingAfter), &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdateAccessPolicy replaces an access policy's definition; the server
// bumps its version.
func (c *Client) UpdateAccessPolicy(ctx context.Context, policy AccessPolicy) (*AccessPolicy, error) {
	var updated AccessPolicy
	if err := c.t.Put(ctx, accessPoliciesPath+"/"+policy.ID.String(), accessPolicyBody{AccessPolicy: policy}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccessPolicy deletes one version of an access policy. It
// returns false without error when that version was already absent.
func (c *Client) DeleteAccessPolicy(ctx context.Context, id uuid.UUID, version int) (bool, error) {
	q := url.Values{}
	q.Set("policy_version", strconv.Itoa(version))
	return c.t.Delete(ctx, accessPoliciesPath+"/"+id.String(), q)
}

// getByResourceID fetches path/{id} for ID references and path?name=
// for name references.
func (c *Client) getByResourceID(ctx context.Context, path string, rid uctypes.ResourceID, out any) error {
	if id, ok := rid.ID(); ok {
		return c.t.Get(ctx, path+"/"+id.String(), nil, out)
	}
	if name, ok := rid.Name(); ok {
		q := url.Values{}
		q.Set("name", name)
		return c.t.Get(ctx, path, q, out)
	}
	return fmt.Errorf("resource reference has neither id nor name")
}
