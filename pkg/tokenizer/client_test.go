package tokenizer_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userclouds/sdk-go/internal/testserver"
	"github.com/userclouds/sdk-go/pkg/tokenizer"
	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
	"github.com/userclouds/sdk-go/pkg/uctypes"
)

func newClient(t *testing.T) *tokenizer.Client {
	t.Helper()
	fake := testserver.New()
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)
	return tokenizer.NewClient(transport.New(ts.URL, testserver.ClientID, testserver.ClientSecret))
}

func TestAccessPolicyTemplateLifecycle(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	template := tokenizer.AccessPolicyTemplate{
		Name:        "CheckAPIKey",
		Description: "Allows access when the context carries the expected API key",
		Function:    "function policy(context, params) { return context.client.api_key === params.api_key; }",
	}
	created, err := client.CreateAccessPolicyTemplate(ctx, template, false)
	require.NoError(t, err)

	adopted, err := client.CreateAccessPolicyTemplate(ctx, template, true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, adopted.ID)

	byName, err := client.GetAccessPolicyTemplate(ctx, uctypes.ByName("CheckAPIKey"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byName.Description = "Checks the api_key context field"
	updated, err := client.UpdateAccessPolicyTemplate(ctx, *byName)
	require.NoError(t, err)
	assert.Equal(t, created.Version+1, updated.Version)

	// Deleting a stale version is refused; the current one succeeds.
	_, err = client.DeleteAccessPolicyTemplate(ctx, updated.ID, created.Version)
	assert.True(t, ucerr.IsConflict(err))

	deleted, err := client.DeleteAccessPolicyTemplate(ctx, updated.ID, updated.Version)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestAccessPolicyComposition(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	template, err := client.CreateAccessPolicyTemplate(ctx, tokenizer.AccessPolicyTemplate{
		Name:     "AlwaysAllow",
		Function: "function policy(context, params) { return true; }",
	}, false)
	require.NoError(t, err)

	templateRef := uctypes.ByID(template.ID)
	_, err = client.CreateAccessPolicy(ctx, tokenizer.AccessPolicy{
		Name:       "TeamPolicy",
		PolicyType: uctypes.PolicyTypeCompositeAnd,
		Components: []tokenizer.AccessPolicyComponent{
			{Template: &templateRef, TemplateParameters: "{}"},
		},
	}, false)
	require.NoError(t, err)

	got, err := client.GetAccessPolicy(ctx, uctypes.ByName("TeamPolicy"))
	require.NoError(t, err)
	require.Len(t, got.Components, 1)
	require.NotNil(t, got.Components[0].Template)
	id, ok := got.Components[0].Template.ID()
	require.True(t, ok)
	assert.Equal(t, template.ID, id)

	policies, err := client.ListAccessPolicies(ctx, 0, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, policies, 1)
}

func TestTransformerLifecycle(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	transformer := tokenizer.Transformer{
		Name:          "PhoneMask",
		InputType:     uctypes.DataTypePhoneNumber,
		OutputType:    uctypes.DataTypeString,
		TransformType: uctypes.TransformTypeTransform,
		Function:      "function transform(data, params) { return data.replace(/\\d(?=\\d{4})/g, 'X'); }",
		Parameters:    "{}",
	}
	created, err := client.CreateTransformer(ctx, transformer, false)
	require.NoError(t, err)

	adopted, err := client.CreateTransformer(ctx, transformer, true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, adopted.ID)

	all, err := client.ListTransformers(ctx, 0, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := client.DeleteTransformer(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	const secret = "555-12-3456"
	token, err := client.CreateToken(ctx, secret, uctypes.TransformerUUID, uctypes.AccessPolicyOpen)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEqual(t, secret, token, "token must not expose the data")

	resolved, err := client.ResolveTokens(ctx, []string{token}, nil, nil)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, secret, resolved[0].Data)

	found, err := client.LookupToken(ctx, secret, uctypes.TransformerUUID, uctypes.AccessPolicyOpen)
	require.NoError(t, err)
	assert.Contains(t, found, token)

	inspected, err := client.InspectToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, inspected.Token)

	deleted, err := client.DeleteToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, deleted)

	// A deleted token no longer resolves to its data.
	resolved, err = client.ResolveTokens(ctx, []string{token}, nil, nil)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Empty(t, resolved[0].Data)
}

func TestLookupOrCreateTokens(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	existing, err := client.CreateToken(ctx, "alice@example.com", uctypes.TransformerEmail, uctypes.AccessPolicyOpen)
	require.NoError(t, err)

	data := []string{"alice@example.com", "bob@example.com"}
	rids := []uctypes.ResourceID{uctypes.TransformerEmail, uctypes.TransformerEmail}
	policies := []uctypes.ResourceID{uctypes.AccessPolicyOpen, uctypes.AccessPolicyOpen}

	tokens, err := client.LookupOrCreateTokens(ctx, data, rids, policies)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, existing, tokens[0], "existing token should be reused")
	assert.NotEmpty(t, tokens[1])
	assert.NotEqual(t, tokens[0], tokens[1])
}
