package userstore_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userclouds/sdk-go/internal/testserver"
	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
	"github.com/userclouds/sdk-go/pkg/uctypes"
	"github.com/userclouds/sdk-go/pkg/userstore"
)

func newClient(t *testing.T) *userstore.Client {
	t.Helper()
	fake := testserver.New()
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)
	return userstore.NewClient(transport.New(ts.URL, testserver.ClientID, testserver.ClientSecret))
}

func TestColumnLifecycle(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	created, err := client.CreateColumn(ctx, userstore.Column{
		Name:      "email",
		Type:      uctypes.DataTypeEmail,
		IndexType: uctypes.ColumnIndexTypeIndexed,
	}, false)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := client.GetColumn(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "email", got.Name)
	assert.Equal(t, uctypes.DataTypeEmail, got.Type)

	got.IndexType = uctypes.ColumnIndexTypeUnique
	updated, err := client.UpdateColumn(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, uctypes.ColumnIndexTypeUnique, updated.IndexType)

	deleted, err := client.DeleteColumn(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = client.GetColumn(ctx, created.ID)
	assert.True(t, ucerr.IsNotFound(err))

	deleted, err = client.DeleteColumn(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete should report the column absent")
}

func TestCreateColumnIfNotExists(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	column := userstore.Column{Name: "phone", Type: uctypes.DataTypeString}
	first, err := client.CreateColumn(ctx, column, false)
	require.NoError(t, err)

	// A duplicate create without the flag surfaces the conflict.
	_, err = client.CreateColumn(ctx, column, false)
	require.Error(t, err)
	assert.True(t, ucerr.IsConflict(err))

	// With the flag, the existing column's ID is adopted.
	second, err := client.CreateColumn(ctx, column, true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestListColumnsPagination(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	const total = 7
	want := make(map[uuid.UUID]bool, total)
	for i := range total {
		created, err := client.CreateColumn(ctx, userstore.Column{
			Name: "col_" + string(rune('a'+i)),
			Type: uctypes.DataTypeString,
		}, false)
		require.NoError(t, err)
		want[created.ID] = true
	}

	// Walking pages of 3 visits every column exactly once.
	seen := make(map[uuid.UUID]bool)
	var cursor uuid.UUID
	for {
		page, err := client.ListColumns(ctx, 3, cursor)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, column := range page {
			assert.False(t, seen[column.ID], "column %s repeated across pages", column.ID)
			seen[column.ID] = true
		}
		cursor = page[len(page)-1].ID
	}
	assert.Equal(t, want, seen)
}

func TestPurposeLifecycle(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	created, err := client.CreatePurpose(ctx, userstore.Purpose{
		Name:        "marketing",
		Description: "Marketing emails",
	}, false)
	require.NoError(t, err)

	adopted, err := client.CreatePurpose(ctx, userstore.Purpose{Name: "marketing"}, true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, adopted.ID)

	purposes, err := client.ListPurposes(ctx, 0, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, purposes, 1)
	assert.Equal(t, "marketing", purposes[0].Name)
}

func TestAccessorVersioning(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	accessor := userstore.Accessor{
		Name: "support_view",
		Columns: []userstore.ColumnOutputConfig{
			{Column: uctypes.ByName("email"), Transformer: uctypes.TransformerPassThrough},
		},
		AccessPolicy:   uctypes.AccessPolicyOpen,
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
		Purposes:       []uctypes.ResourceID{uctypes.ByName("support")},
	}
	created, err := client.CreateAccessor(ctx, accessor, false)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	created.Description = "support can read contact fields"
	updated, err := client.UpdateAccessor(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version, "update should bump the version")

	got, err := client.GetAccessor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "support can read contact fields", got.Description)
}

func TestMutatorLifecycle(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	mutator := userstore.Mutator{
		Name: "support_update",
		Columns: []userstore.ColumnInputConfig{
			{Column: uctypes.ByName("phone"), Validator: uctypes.ValidatorOpen},
		},
		AccessPolicy:   uctypes.AccessPolicyOpen,
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
	}
	created, err := client.CreateMutator(ctx, mutator, false)
	require.NoError(t, err)

	adopted, err := client.CreateMutator(ctx, mutator, true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, adopted.ID)

	deleted, err := client.DeleteMutator(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUserLifecycle(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	id, err := client.CreateUserWithPassword(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	user, err := client.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Profile["email"])

	updated, err := client.UpdateUser(ctx, id, map[string]any{
		"email": "alice@example.com",
		"name":  "Alice Example",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", updated.Profile["name"])

	matches, err := client.ListUsers(ctx, 0, uuid.Nil, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, id, matches[0].ID)

	none, err := client.ListUsers(ctx, 0, uuid.Nil, "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)

	deleted, err := client.DeleteUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = client.GetUser(ctx, id)
	assert.True(t, ucerr.IsNotFound(err))
}

func TestExecuteMutatorAndAccessor(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	_, err := client.CreateColumn(ctx, userstore.Column{
		Name: "phone_number",
		Type: uctypes.DataTypeString,
	}, false)
	require.NoError(t, err)
	_, err = client.CreatePurpose(ctx, userstore.Purpose{Name: "support"}, false)
	require.NoError(t, err)

	accessor, err := client.CreateAccessor(ctx, userstore.Accessor{
		Name: "support_view_phone",
		Columns: []userstore.ColumnOutputConfig{
			{Column: uctypes.ByName("phone_number"), Transformer: uctypes.TransformerPassThrough},
			{Column: uctypes.ByName("id"), Transformer: uctypes.TransformerPassThrough},
		},
		AccessPolicy:   uctypes.AccessPolicyOpen,
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
		Purposes:       []uctypes.ResourceID{uctypes.ByName("support")},
	}, false)
	require.NoError(t, err)

	mutator, err := client.CreateMutator(ctx, userstore.Mutator{
		Name: "set_phone",
		Columns: []userstore.ColumnInputConfig{
			{Column: uctypes.ByName("phone_number"), Validator: uctypes.ValidatorOpen},
		},
		AccessPolicy:   uctypes.AccessPolicyOpen,
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
	}, false)
	require.NoError(t, err)

	uid, err := client.CreateUser(ctx)
	require.NoError(t, err)

	_, err = client.ExecuteMutator(ctx, mutator.ID, nil, []any{uid}, map[string]userstore.ValueAndPurposes{
		"phone_number": {
			Value:            "123-456-7890",
			PurposeAdditions: []uctypes.ResourceID{uctypes.ByName("support")},
		},
	})
	require.NoError(t, err)

	// Writing a column the mutator is not configured for is refused.
	_, err = client.ExecuteMutator(ctx, mutator.ID, nil, []any{uid}, map[string]userstore.ValueAndPurposes{
		"email": {Value: "alice@example.com"},
	})
	require.Error(t, err)

	rows, err := client.ExecuteAccessor(ctx, accessor.ID, map[string]any{"team": "support_team"}, []any{uid})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(rows[0]), &row))
	assert.Equal(t, "123-456-7890", row["phone_number"])
	assert.Equal(t, uid.String(), row["id"])

	// A selector that matches no user yields no rows.
	rows, err = client.ExecuteAccessor(ctx, accessor.ID, nil, []any{uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateUserWithMutator(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	mutator, err := client.CreateMutator(ctx, userstore.Mutator{
		Name: "seed_profile",
		Columns: []userstore.ColumnInputConfig{
			{Column: uctypes.ByName("nickname"), Validator: uctypes.ValidatorOpen},
		},
		AccessPolicy:   uctypes.AccessPolicyOpen,
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
	}, false)
	require.NoError(t, err)

	uid, err := client.CreateUserWithMutator(ctx, mutator.ID, nil, map[string]userstore.ValueAndPurposes{
		"nickname": {Value: "ally"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, uid)

	user, err := client.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "ally", user.Profile["nickname"])
}

func TestDownloadUserstoreSDK(t *testing.T) {
	t.Parallel()

	client := newClient(t)

	body, err := client.DownloadUserstoreSDK(context.Background())
	require.NoError(t, err)
	assert.Contains(t, body, "userstore")
}

func TestRetentionSpecificity(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	security, err := client.CreatePurpose(ctx, userstore.Purpose{Name: "security"}, false)
	require.NoError(t, err)
	operations, err := client.CreatePurpose(ctx, userstore.Purpose{Name: "operations"}, false)
	require.NoError(t, err)

	// Tenant default: one week.
	_, err = client.CreateSoftDeletedRetentionDurationOnTenant(ctx, userstore.UpdateColumnRetentionDurationRequest{
		RetentionDuration: userstore.ColumnRetentionDuration{
			DurationType: uctypes.DataLifeCycleStateSoftDeleted,
			Duration:     userstore.RetentionDuration{Unit: userstore.DurationUnitWeek, Duration: 1},
		},
	})
	require.NoError(t, err)

	// Security purpose overrides with one year.
	_, err = client.CreateSoftDeletedRetentionDurationOnPurpose(ctx, security.ID, userstore.UpdateColumnRetentionDurationRequest{
		RetentionDuration: userstore.ColumnRetentionDuration{
			DurationType: uctypes.DataLifeCycleStateSoftDeleted,
			PurposeID:    security.ID,
			Duration:     userstore.RetentionDuration{Unit: userstore.DurationUnitYear, Duration: 1},
		},
	})
	require.NoError(t, err)

	resolved, err := client.GetDefaultSoftDeletedRetentionDurationOnPurpose(ctx, security.ID)
	require.NoError(t, err)
	assert.Equal(t, userstore.DurationUnitYear, resolved.RetentionDuration.Duration.Unit,
		"purpose setting should override the tenant default")

	inherited, err := client.GetDefaultSoftDeletedRetentionDurationOnPurpose(ctx, operations.ID)
	require.NoError(t, err)
	assert.Equal(t, userstore.DurationUnitWeek, inherited.RetentionDuration.Duration.Unit,
		"unconfigured purpose should inherit the tenant default")
}

func TestColumnRetentionBatch(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	ctx := context.Background()

	column, err := client.CreateColumn(ctx, userstore.Column{Name: "ssn", Type: uctypes.DataTypeSSN}, false)
	require.NoError(t, err)
	purpose, err := client.CreatePurpose(ctx, userstore.Purpose{Name: "fraud"}, false)
	require.NoError(t, err)

	resp, err := client.UpdateSoftDeletedRetentionDurationsOnColumn(ctx, column.ID, userstore.UpdateColumnRetentionDurationsRequest{
		RetentionDurations: []userstore.ColumnRetentionDuration{{
			DurationType: uctypes.DataLifeCycleStateSoftDeleted,
			ColumnID:     column.ID,
			PurposeID:    purpose.ID,
			Duration:     userstore.RetentionDuration{Unit: userstore.DurationUnitMonth, Duration: 3},
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.RetentionDurations, 1)

	all, err := client.GetSoftDeletedRetentionDurationsOnColumn(ctx, column.ID)
	require.NoError(t, err)
	require.Len(t, all.RetentionDurations, 1)
	assert.Equal(t, userstore.DurationUnitMonth, all.RetentionDurations[0].Duration.Unit)
	assert.Equal(t, 3, all.RetentionDurations[0].Duration.Duration)
}
