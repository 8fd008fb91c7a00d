package tokenizer

import (
	"context"
	"net/url"

	"github.com/userclouds/sdk-go/pkg/uctypes"
)

const tokensPath = "/tokenizer/tokens"

type createTokenRequest struct {
	Data            string             `json:"data"`
	TransformerRID  uctypes.ResourceID `json:"transformer_rid"`
	AccessPolicyRID uctypes.ResourceID `json:"access_policy_rid"`
}

// CreateToken mints a token for data using the given transformer and
// access policy.
func (c *Client) CreateToken(ctx context.Context, data string, transformerRID, accessPolicyRID uctypes.ResourceID) (string, error) {
	req := createTokenRequest{
		Data:            data,
		TransformerRID:  transformerRID,
		AccessPolicyRID: accessPolicyRID,
	}
	var resp struct {
		Data string `json:"data"`
	}
	if err := c.t.Post(ctx, tokensPath, req, &resp); err != nil {
		return "", err
	}
	return resp.Data, nil
}

// LookupToken returns the existing tokens minted for data with the
// given transformer and access policy.
func (c *Client) LookupToken(ctx context.Context, data string, transformerRID, accessPolicyRID uctypes.ResourceID) ([]string, error) {
	req := createTokenRequest{
		Data:            data,
		TransformerRID:  transformerRID,
		AccessPolicyRID: accessPolicyRID,
	}
	var resp struct {
		Tokens []string `json:"tokens"`
	}
	if err := c.t.Post(ctx, tokensPath+"/actions/lookup", req, &resp); err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

type lookupOrCreateTokensRequest struct {
	Data             []string             `json:"data"`
	TransformerRIDs  []uctypes.ResourceID `json:"transformer_rids"`
	AccessPolicyRIDs []uctypes.ResourceID `json:"access_policy_rids"`
}

// LookupOrCreateTokens returns one token per data element, minting
// tokens that do not exist yet. The three slices are parallel.
func (c *Client) LookupOrCreateTokens(ctx context.Context, data []string, transformerRIDs, accessPolicyRIDs []uctypes.ResourceID) ([]string, error) {
	req := lookupOrCreateTokensRequest{
		Data:             data,
		TransformerRIDs:  transformerRIDs,
		AccessPolicyRIDs: accessPolicyRIDs,
	}
	var resp struct {
		Tokens []string `json:"tokens"`
	}
	if err := c.t.Post(ctx, tokensPath+"/actions/lookuporcreate", req, &resp); err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

type resolveTokensRequest struct {
	Tokens   []string             `json:"tokens"`
	Context  map[string]any       `json:"context"`
	Purposes []uctypes.ResourceID `json:"purposes"`
}

// ResolvedToken pairs a token with the data it resolved to. Data is
// empty when the token's access policy denied the request.
type ResolvedToken struct {
	Token string `json:"token"`
	Data  string `json:"data"`
}

// ResolveTokens exchanges tokens for their underlying data, subject to
// each token's access policy evaluated against the request context and
// purposes.
func (c *Client) ResolveTokens(ctx context.Context, tokens []string, accessContext map[string]any, purposes []uctypes.ResourceID) ([]ResolvedToken, error) {
	req := resolveTokensRequest{
		Tokens:   tokens,
		Context:  accessContext,
		Purposes: purposes,
	}
	var resolved []ResolvedToken
	if err := c.t.Post(ctx, tokensPath+"/actions/resolve", req, &resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// InspectToken describes a token without resolving it.
func (c *Client) InspectToken(ctx context.Context, token string) (*InspectTokenResponse, error) {
	req := struct {
		Token string `json:"token"`
	}{Token: token}
	var resp InspectTokenResponse
	if err := c.t.Post(ctx, tokensPath+"/actions/inspect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteToken deletes a token. It returns false without error when the
// token was already absent.
func (c *Client) DeleteToken(ctx context.Context, token string) (bool, error) {
	q := url.Values{}
	q.Set("token", token)
	return c.t.Delete(ctx, tokensPath, q)
}
