package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/userclouds/sdk-go/pkg/authz"
)

// The document-management scenario uses fixed type IDs so repeated runs
// against the same tenant adopt the existing types instead of colliding.
var (
	docUserObjectType = authz.ObjectType{
		ID:       uuid.MustParse("755410e3-97da-4acc-8173-4a10cab2c861"),
		TypeName: "DocUser",
	}
	folderObjectType = authz.ObjectType{
		ID:       uuid.MustParse("f7478d4c-4001-4735-80bc-da136f22b5ac"),
		TypeName: "Folder",
	}
	documentObjectType = authz.ObjectType{
		ID:       uuid.MustParse("a9460374-2431-4771-a760-840a62e5566e"),
		TypeName: "Document",
	}

	userViewFolderEdgeType = authz.EdgeType{
		ID:                 uuid.MustParse("4c3a7c7b-aae4-4d58-8094-7a9f3d7da7c6"),
		TypeName:           "UserViewFolder",
		SourceObjectTypeID: docUserObjectType.ID,
		TargetObjectTypeID: folderObjectType.ID,
		Attributes:         []authz.Attribute{{Name: "view", Direct: true}},
	}
	folderViewFolderEdgeType = authz.EdgeType{
		ID:                 uuid.MustParse("a2fcd885-f763-4a68-8733-3084631d2fbe"),
		TypeName:           "FolderViewFolder",
		SourceObjectTypeID: folderObjectType.ID,
		TargetObjectTypeID: folderObjectType.ID,
		Attributes:         []authz.Attribute{{Name: "view", Propagate: true}},
	}
	folderViewDocEdgeType = authz.EdgeType{
		ID:                 uuid.MustParse("0765a607-a933-4e6b-9c07-4566fa8c2944"),
		TypeName:           "FolderViewDoc",
		SourceObjectTypeID: folderObjectType.ID,
		TargetObjectTypeID: documentObjectType.ID,
		Attributes:         []authz.Attribute{{Name: "view", Propagate: true}},
	}
)

// attributeCheck records one CheckAttribute call and its outcome.
type attributeCheck struct {
	Source    string `json:"source" yaml:"source"`
	Target    string `json:"target" yaml:"target"`
	Attribute string `json:"attribute" yaml:"attribute"`
	Has       bool   `json:"has_attribute" yaml:"has_attribute"`
	Want      bool   `json:"expected" yaml:"expected"`
}

var authzCmd = &cobra.Command{
	Use:   "authz",
	Short: "Run the document-tree authorization scenario",
	Long: `Builds a small document-management graph: a user with view on a
folder, folders propagating view to nested folders and documents. It
then verifies reachability with CheckAttribute and tears everything
down.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := authz.NewClient(tenant)

		if err := setupAuthz(ctx, client); err != nil {
			return err
		}
		checks, err := runAuthzScenario(ctx, client)
		if err != nil {
			return err
		}
		if err := cleanupAuthz(ctx, client); err != nil {
			return err
		}

		if err := formatOutput(checks); err != nil {
			return err
		}
		if outputFormat == "table" {
			fmt.Printf("%-10s %-10s %-10s %-8s\n", "SOURCE", "TARGET", "ATTRIBUTE", "RESULT")
			for _, c := range checks {
				fmt.Printf("%-10s %-10s %-10s %-8t\n", c.Source, c.Target, c.Attribute, c.Has)
			}
			fmt.Println(okFmt("authz scenario passed"))
		}
		return nil
	},
}

func setupAuthz(ctx context.Context, client *authz.Client) error {
	for _, ot := range []authz.ObjectType{docUserObjectType, documentObjectType, folderObjectType} {
		if _, err := client.CreateObjectType(ctx, ot, true); err != nil {
			return fmt.Errorf("failed to create object type %s: %w", ot.TypeName, err)
		}
	}
	for _, et := range []authz.EdgeType{userViewFolderEdgeType, folderViewFolderEdgeType, folderViewDocEdgeType} {
		if _, err := client.CreateEdgeType(ctx, et, true); err != nil {
			return fmt.Errorf("failed to create edge type %s: %w", et.TypeName, err)
		}
	}

	// Organizations are not part of the scenario; listing them just
	// confirms the endpoint is reachable with these credentials.
	if _, err := client.ListOrganizations(ctx, 0, uuid.Nil); err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}
	return nil
}

// runAuthzScenario builds user -> folder1 -> folder2 -> doc2 and checks
// which objects the user can view. doc1 is left unconnected on purpose.
func runAuthzScenario(ctx context.Context, client *authz.Client) (checks []attributeCheck, err error) {
	var objects []*authz.Object
	var edges []*authz.Edge
	defer func() {
		for _, e := range edges {
			if _, derr := client.DeleteEdge(ctx, e.ID); derr != nil && err == nil {
				err = fmt.Errorf("failed to delete edge: %w", derr)
			}
		}
		for _, o := range objects {
			if _, derr := client.DeleteObject(ctx, o.ID); derr != nil && err == nil {
				err = fmt.Errorf("failed to delete object %s: %w", o.Alias, derr)
			}
		}
	}()

	create := func(typeID uuid.UUID, alias string) *authz.Object {
		if err != nil {
			return nil
		}
		var o *authz.Object
		o, err = client.CreateObject(ctx, authz.Object{ID: uuid.New(), TypeID: typeID, Alias: alias}, false)
		if err != nil {
			err = fmt.Errorf("failed to create object %s: %w", alias, err)
			return nil
		}
		objects = append(objects, o)
		step("created %s %s", alias, o.ID)
		return o
	}

	user := create(docUserObjectType.ID, "user")
	folder1 := create(folderObjectType.ID, "folder1")
	folder2 := create(folderObjectType.ID, "folder2")
	doc1 := create(documentObjectType.ID, "doc1")
	doc2 := create(documentObjectType.ID, "doc2")
	if err != nil {
		return nil, err
	}

	connect := func(edgeTypeID, sourceID, targetID uuid.UUID) {
		if err != nil {
			return
		}
		var e *authz.Edge
		e, err = client.CreateEdge(ctx, authz.Edge{
			ID:             uuid.New(),
			EdgeTypeID:     edgeTypeID,
			SourceObjectID: sourceID,
			TargetObjectID: targetID,
		}, false)
		if err != nil {
			err = fmt.Errorf("failed to create edge: %w", err)
			return
		}
		edges = append(edges, e)
	}

	connect(userViewFolderEdgeType.ID, user.ID, folder1.ID)
	connect(folderViewFolderEdgeType.ID, folder1.ID, folder2.ID)
	connect(folderViewDocEdgeType.ID, folder2.ID, doc2.ID)
	if err != nil {
		return nil, err
	}

	expectations := []struct {
		source, target *authz.Object
		want           bool
	}{
		{user, folder1, true},
		{user, folder2, true},
		{user, doc1, false},
		{user, doc2, true},
	}
	for _, e := range expectations {
		has, cerr := client.CheckAttribute(ctx, e.source.ID, e.target.ID, "view")
		if cerr != nil {
			return nil, fmt.Errorf("failed to check attribute: %w", cerr)
		}
		checks = append(checks, attributeCheck{
			Source:    e.source.Alias,
			Target:    e.target.Alias,
			Attribute: "view",
			Has:       has,
			Want:      e.want,
		})
		if has != e.want {
			return nil, fmt.Errorf("%s view of %s = %t, expected %t", e.source.Alias, e.target.Alias, has, e.want)
		}
	}
	return checks, nil
}

func cleanupAuthz(ctx context.Context, client *authz.Client) error {
	for _, et := range []authz.EdgeType{userViewFolderEdgeType, folderViewFolderEdgeType, folderViewDocEdgeType} {
		if _, err := client.DeleteEdgeType(ctx, et.ID); err != nil {
			return fmt.Errorf("failed to delete edge type %s: %w", et.TypeName, err)
		}
	}
	for _, ot := range []authz.ObjectType{docUserObjectType, documentObjectType, folderObjectType} {
		if _, err := client.DeleteObjectType(ctx, ot.ID); err != nil {
			return fmt.Errorf("failed to delete object type %s: %w", ot.TypeName, err)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(authzCmd)
}
