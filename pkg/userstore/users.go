package userstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/uctypes"
)

const (
	usersPath        = "/authn/users"
	usersMutatorPath = "/userstore/api/users"
)

// createUserRequest covers the three user-creation endpoints; unset
// optional fields stay off the wire.
type createUserRequest struct {
	ID             *uuid.UUID                  `json:"id,omitempty"`
	Username       string                      `json:"username,omitempty"`
	Password       string                      `json:"password,omitempty"`
	AuthnType      uctypes.AuthnType           `json:"authn_type,omitempty"`
	OrganizationID *uuid.UUID                  `json:"organization_id,omitempty"`
	Region         uctypes.Region              `json:"region,omitempty"`
	MutatorID      *uuid.UUID                  `json:"mutator_id,omitempty"`
	Context        map[string]any              `json:"context,omitempty"`
	RowData        map[string]ValueAndPurposes `json:"row_data,omitempty"`
}

// UserOption sets an optional attribute on a user being created.
type UserOption func(*createUserRequest)

// WithUserID pre-assigns the new user's ID instead of letting the
// server pick one.
func WithUserID(id uuid.UUID) UserOption {
	return func(r *createUserRequest) {
		r.ID = &id
	}
}

// WithOrganization places the new user in an organization.
func WithOrganization(id uuid.UUID) UserOption {
	return func(r *createUserRequest) {
		r.OrganizationID = &id
	}
}

// WithRegion pins the new user's data to a residency region.
func WithRegion(region uctypes.Region) UserOption {
	return func(r *createUserRequest) {
		r.Region = region
	}
}

// CreateUser creates a user with an empty profile and returns its ID.
func (c *Client) CreateUser(ctx context.Context, opts ...UserOption) (uuid.UUID, error) {
	var req createUserRequest
	for _, opt := range opts {
		opt(&req)
	}
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	if err := c.t.Post(ctx, usersPath, req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

// CreateUserWithPassword creates a user with password authn and returns
// its ID.
func (c *Client) CreateUserWithPassword(ctx context.Context, username, password string, opts ...UserOption) (uuid.UUID, error) {
	req := createUserRequest{
		Username:  username,
		Password:  password,
		AuthnType: uctypes.AuthnTypePassword,
	}
	for _, opt := range opts {
		opt(&req)
	}
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	if err := c.t.Post(ctx, usersPath, req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

// CreateUserWithMutator creates a user and initializes its profile
// through a mutator in one call, returning the new user's ID.
func (c *Client) CreateUserWithMutator(ctx context.Context, mutatorID uuid.UUID, accessContext map[string]any, rowData map[string]ValueAndPurposes, opts ...UserOption) (uuid.UUID, error) {
	req := createUserRequest{
		MutatorID: &mutatorID,
		Context:   accessContext,
		RowData:   rowData,
	}
	for _, opt := range opts {
		opt(&req)
	}
	var id uuid.UUID
	if err := c.t.Post(ctx, usersMutatorPath, req, &id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// GetUser fetches a user record by ID.
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	var user UserResponse
	if err := c.t.Get(ctx, usersPath+"/"+id.String(), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns one page of users, optionally filtered to an email
// address. Pass an empty email for no filter.
func (c *Client) ListUsers(ctx context.Context, limit int, startingAfter uuid.UUID, email string) ([]UserResponse, error) {
	q := transport.ListQuery(limit, startingAfter)
	if email != "" {
		q.Set("email", email)
	}
	var page listResponse[UserResponse]
	if err := c.t.Get(ctx, usersPath, q, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdateUser replaces a user's profile and returns the updated record.
func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, profile map[string]any) (*UserResponse, error) {
	body := struct {
		Profile map[string]any `json:"profile"`
	}{Profile: profile}
	var user UserResponse
	if err := c.t.Put(ctx, usersPath+"/"+id.String(), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user. It returns false without error when the
// user was already absent.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, usersPath+"/"+id.String(), nil)
}
