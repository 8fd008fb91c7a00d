package authz_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userclouds/sdk-go/internal/testserver"
	"github.com/userclouds/sdk-go/pkg/authz"
	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

func newClient(t *testing.T) *authz.Client {
	t.Helper()
	fake := testserver.New()
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)
	return authz.NewClient(transport.New(ts.URL, testserver.ClientID, testserver.ClientSecret))
}

func TestObjectLifecycle(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	docUser, err := client.CreateObjectType(ctx, authz.ObjectType{TypeName: "DocUser"}, false)
	require.NoError(t, err)

	alice, err := client.CreateObject(ctx, authz.Object{TypeID: docUser.ID, Alias: "alice"}, false)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, alice.ID)

	// Re-creating the same alias adopts the existing object.
	adopted, err := client.CreateObject(ctx, authz.Object{TypeID: docUser.ID, Alias: "alice"}, true)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, adopted.ID)

	got, err := client.GetObject(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Alias)
	require.NotNil(t, got.Created)

	deleted, err := client.DeleteObject(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = client.GetObject(ctx, alice.ID)
	assert.True(t, ucerr.IsNotFound(err))
}

func TestEdgeTypeAdoption(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	user, err := client.CreateObjectType(ctx, authz.ObjectType{TypeName: "DocUser"}, false)
	require.NoError(t, err)
	folder, err := client.CreateObjectType(ctx, authz.ObjectType{TypeName: "Folder"}, false)
	require.NoError(t, err)

	edgeType := authz.EdgeType{
		TypeName:           "UserViewFolder",
		SourceObjectTypeID: user.ID,
		TargetObjectTypeID: folder.ID,
		Attributes:         []authz.Attribute{{Name: "view", Direct: true}},
	}
	first, err := client.CreateEdgeType(ctx, edgeType, false)
	require.NoError(t, err)

	second, err := client.CreateEdgeType(ctx, edgeType, true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

// TestCheckAttributePropagation builds the document-tree scenario: a
// user has view directly on a folder, folders propagate view to nested
// folders and documents, and unrelated branches stay unreachable.
func TestCheckAttributePropagation(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	userType, err := client.CreateObjectType(ctx, authz.ObjectType{TypeName: "DocUser"}, false)
	require.NoError(t, err)
	folderType, err := client.CreateObjectType(ctx, authz.ObjectType{TypeName: "Folder"}, false)
	require.NoError(t, err)
	documentType, err := client.CreateObjectType(ctx, authz.ObjectType{TypeName: "Document"}, false)
	require.NoError(t, err)

	userViewFolder, err := client.CreateEdgeType(ctx, authz.EdgeType{
		TypeName:           "UserViewFolder",
		SourceObjectTypeID: userType.ID,
		TargetObjectTypeID: folderType.ID,
		Attributes:         []authz.Attribute{{Name: "view", Direct: true}},
	}, false)
	require.NoError(t, err)

	folderContainFolder, err := client.CreateEdgeType(ctx, authz.EdgeType{
		TypeName:           "FolderContainFolder",
		SourceObjectTypeID: folderType.ID,
		TargetObjectTypeID: folderType.ID,
		Attributes:         []authz.Attribute{{Name: "view", Propagate: true}},
	}, false)
	require.NoError(t, err)

	folderContainDocument, err := client.CreateEdgeType(ctx, authz.EdgeType{
		TypeName:           "FolderContainDocument",
		SourceObjectTypeID: folderType.ID,
		TargetObjectTypeID: documentType.ID,
		Attributes:         []authz.Attribute{{Name: "view", Propagate: true}},
	}, false)
	require.NoError(t, err)

	alice, err := client.CreateObject(ctx, authz.Object{TypeID: userType.ID, Alias: "alice"}, false)
	require.NoError(t, err)
	bob, err := client.CreateObject(ctx, authz.Object{TypeID: userType.ID, Alias: "bob"}, false)
	require.NoError(t, err)
	topFolder, err := client.CreateObject(ctx, authz.Object{TypeID: folderType.ID, Alias: "top"}, false)
	require.NoError(t, err)
	nestedFolder, err := client.CreateObject(ctx, authz.Object{TypeID: folderType.ID, Alias: "nested"}, false)
	require.NoError(t, err)
	document, err := client.CreateObject(ctx, authz.Object{TypeID: documentType.ID, Alias: "doc"}, false)
	require.NoError(t, err)

	_, err = client.CreateEdge(ctx, authz.Edge{
		EdgeTypeID:     userViewFolder.ID,
		SourceObjectID: alice.ID,
		TargetObjectID: topFolder.ID,
	}, false)
	require.NoError(t, err)
	_, err = client.CreateEdge(ctx, authz.Edge{
		EdgeTypeID:     folderContainFolder.ID,
		SourceObjectID: topFolder.ID,
		TargetObjectID: nestedFolder.ID,
	}, false)
	require.NoError(t, err)
	containDoc, err := client.CreateEdge(ctx, authz.Edge{
		EdgeTypeID:     folderContainDocument.ID,
		SourceObjectID: nestedFolder.ID,
		TargetObjectID: document.ID,
	}, false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		source uuid.UUID
		target uuid.UUID
		want   bool
	}{
		{"direct edge", alice.ID, topFolder.ID, true},
		{"one propagation hop", alice.ID, nestedFolder.ID, true},
		{"two propagation hops", alice.ID, document.ID, true},
		{"no path", bob.ID, document.ID, false},
		{"reverse direction", document.ID, alice.ID, false},
	}
	for _, tt := range tests {
		has, err := client.CheckAttribute(ctx, tt.source, tt.target, "view")
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, has, tt.name)
	}

	// Cutting the last containment hop revokes access to the document
	// but not to the folders above it.
	deleted, err := client.DeleteEdge(ctx, containDoc.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	has, err := client.CheckAttribute(ctx, alice.ID, document.ID, "view")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = client.CheckAttribute(ctx, alice.ID, nestedFolder.ID, "view")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestOrganizations(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	created, err := client.CreateOrganization(ctx, authz.Organization{
		Name:   "acme",
		Region: "aws-us-east-1",
	})
	require.NoError(t, err)

	got, err := client.GetOrganization(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)

	all, err := client.ListOrganizations(ctx, 0, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := client.DeleteOrganization(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
