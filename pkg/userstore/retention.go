package userstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/uctypes"
)

// Units for RetentionDuration.
const (
	DurationUnitHour  = "hour"
	DurationUnitDay   = "day"
	DurationUnitWeek  = "week"
	DurationUnitMonth = "month"
	DurationUnitYear  = "year"
)

// RetentionDuration is a length of time soft-deleted values remain
// recoverable.
type RetentionDuration struct {
	Unit     string `json:"unit"`
	Duration int    `json:"duration"`
}

// ColumnRetentionDuration is a retention setting at one scope. ColumnID
// and PurposeID are the zero UUID for settings above their scope; a
// setting with UseDefault set inherits rather than overrides. Scope
// specificity is column over purpose over tenant over none, resolved by
// the server.
type ColumnRetentionDuration struct {
	DurationType    uctypes.DataLifeCycleState `json:"duration_type"`
	ID              uuid.UUID                  `json:"id"`
	ColumnID        uuid.UUID                  `json:"column_id"`
	PurposeID       uuid.UUID                  `json:"purpose_id"`
	Duration        RetentionDuration          `json:"duration"`
	UseDefault      bool                       `json:"use_default"`
	DefaultDuration *RetentionDuration         `json:"default_duration,omitempty"`
	PurposeName     string                     `json:"purpose_name,omitempty"`
	Version         int                        `json:"version"`
}

// UpdateColumnRetentionDurationRequest carries one retention setting to
// create or update.
type UpdateColumnRetentionDurationRequest struct {
	RetentionDuration ColumnRetentionDuration `json:"retention_duration"`
}

// UpdateColumnRetentionDurationsRequest carries the full set of
// per-purpose retention settings for one column; entries can add,
// update, or (via UseDefault) clear settings.
type UpdateColumnRetentionDurationsRequest struct {
	RetentionDurations []ColumnRetentionDuration `json:"retention_durations"`
}

// ColumnRetentionDurationResponse is one resolved retention setting plus
// the maximum the tenant allows.
type ColumnRetentionDurationResponse struct {
	MaxDuration       RetentionDuration       `json:"max_duration"`
	RetentionDuration ColumnRetentionDuration `json:"retention_duration"`
}

// ColumnRetentionDurationsResponse is the per-purpose retention settings
// of one column plus the maximum the tenant allows.
type ColumnRetentionDurationsResponse struct {
	MaxDuration        RetentionDuration         `json:"max_duration"`
	RetentionDurations []ColumnRetentionDuration `json:"retention_durations"`
}

const retentionPath = "/userstore/config/softdeletedretentiondurations"

func purposeRetentionPath(purposeID uuid.UUID) string {
	return purposesPath + "/" + purposeID.String() + "/softdeletedretentiondurations"
}

func columnRetentionPath(columnID uuid.UUID) string {
	return columnsPath + "/" + columnID.String() + "/softdeletedretentiondurations"
}

// Tenant scope. A tenant-level setting applies to every column purpose
// without a more specific setting; with none configured, soft-deleted
// values are not retained.

// CreateSoftDeletedRetentionDurationOnTenant creates the tenant-level
// default retention duration.
func (c *Client) CreateSoftDeletedRetentionDurationOnTenant(ctx context.Context, req UpdateColumnRetentionDurationRequest) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Post(ctx, retentionPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSoftDeletedRetentionDurationOnTenant fetches a specific
// tenant-level retention duration.
func (c *Client) GetSoftDeletedRetentionDurationOnTenant(ctx context.Context, durationID uuid.UUID) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Get(ctx, retentionPath+"/"+durationID.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDefaultSoftDeletedRetentionDurationOnTenant fetches the effective
// tenant-level retention duration, configured or not.
func (c *Client) GetDefaultSoftDeletedRetentionDurationOnTenant(ctx context.Context) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Get(ctx, retentionPath, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSoftDeletedRetentionDurationOnTenant updates a tenant-level
// retention duration.
func (c *Client) UpdateSoftDeletedRetentionDurationOnTenant(ctx context.Context, durationID uuid.UUID, req UpdateColumnRetentionDurationRequest) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Put(ctx, retentionPath+"/"+durationID.String(), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSoftDeletedRetentionDurationOnTenant deletes a tenant-level
// retention duration. It returns false without error when the setting
// was already absent.
func (c *Client) DeleteSoftDeletedRetentionDurationOnTenant(ctx context.Context, durationID uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, retentionPath+"/"+durationID.String(), nil)
}

// Purpose scope. A purpose-level setting applies to every column
// purpose for that purpose without a column-level setting.

// CreateSoftDeletedRetentionDurationOnPurpose creates a purpose-level
// retention duration.
func (c *Client) CreateSoftDeletedRetentionDurationOnPurpose(ctx context.Context, purposeID uuid.UUID, req UpdateColumnRetentionDurationRequest) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Post(ctx, purposeRetentionPath(purposeID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSoftDeletedRetentionDurationOnPurpose fetches a specific
// purpose-level retention duration.
func (c *Client) GetSoftDeletedRetentionDurationOnPurpose(ctx context.Context, purposeID, durationID uuid.UUID) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Get(ctx, purposeRetentionPath(purposeID)+"/"+durationID.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDefaultSoftDeletedRetentionDurationOnPurpose fetches the effective
// retention duration for a purpose, configured or inherited.
func (c *Client) GetDefaultSoftDeletedRetentionDurationOnPurpose(ctx context.Context, purposeID uuid.UUID) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Get(ctx, purposeRetentionPath(purposeID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSoftDeletedRetentionDurationOnPurpose updates a purpose-level
// retention duration.
func (c *Client) UpdateSoftDeletedRetentionDurationOnPurpose(ctx context.Context, purposeID, durationID uuid.UUID, req UpdateColumnRetentionDurationRequest) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Put(ctx, purposeRetentionPath(purposeID)+"/"+durationID.String(), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSoftDeletedRetentionDurationOnPurpose deletes a purpose-level
// retention duration. It returns false without error when the setting
// was already absent.
func (c *Client) DeleteSoftDeletedRetentionDurationOnPurpose(ctx context.Context, purposeID, durationID uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, purposeRetentionPath(purposeID)+"/"+durationID.String(), nil)
}

// Column scope. A column-purpose setting overrides purpose- and
// tenant-level settings.

// GetSoftDeletedRetentionDurationOnColumn fetches a specific
// column-purpose retention duration.
func (c *Client) GetSoftDeletedRetentionDurationOnColumn(ctx context.Context, columnID, durationID uuid.UUID) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Get(ctx, columnRetentionPath(columnID)+"/"+durationID.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSoftDeletedRetentionDurationsOnColumn fetches the effective
// retention duration for each purpose of a column.
func (c *Client) GetSoftDeletedRetentionDurationsOnColumn(ctx context.Context, columnID uuid.UUID) (*ColumnRetentionDurationsResponse, error) {
	var resp ColumnRetentionDurationsResponse
	if err := c.t.Get(ctx, columnRetentionPath(columnID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSoftDeletedRetentionDurationOnColumn updates a column-purpose
// retention duration.
func (c *Client) UpdateSoftDeletedRetentionDurationOnColumn(ctx context.Context, columnID, durationID uuid.UUID, req UpdateColumnRetentionDurationRequest) (*ColumnRetentionDurationResponse, error) {
	var resp ColumnRetentionDurationResponse
	if err := c.t.Put(ctx, columnRetentionPath(columnID)+"/"+durationID.String(), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSoftDeletedRetentionDurationsOnColumn applies a batch of
// per-purpose retention settings to one column.
func (c *Client) UpdateSoftDeletedRetentionDurationsOnColumn(ctx context.Context, columnID uuid.UUID, req UpdateColumnRetentionDurationsRequest) (*ColumnRetentionDurationsResponse, error) {
	var resp ColumnRetentionDurationsResponse
	if err := c.t.Post(ctx, columnRetentionPath(columnID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSoftDeletedRetentionDurationOnColumn deletes a column-purpose
// retention duration. It returns false without error when the setting
// was already absent.
func (c *Client) DeleteSoftDeletedRetentionDurationOnColumn(ctx context.Context, columnID, durationID uuid.UUID) (bool, error) {
	return c.t.Delete(ctx, columnRetentionPath(columnID)+"/"+durationID.String(), nil)
}
