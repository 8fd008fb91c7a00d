package userstore

import (
	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/uctypes"
)

// Column defines a typed field in the user profile store.
type Column struct {
	ID           uuid.UUID               `json:"id"`
	Name         string                  `json:"name"`
	Type         uctypes.DataType        `json:"type"`
	IsArray      bool                    `json:"is_array"`
	DefaultValue string                  `json:"default_value"`
	IndexType    uctypes.ColumnIndexType `json:"index_type"`
}

// Purpose is a named reason data may be accessed.
type Purpose struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// UserSelectorConfig selects the user rows an accessor or mutator
// operates on. The where clause references columns as {column_name} and
// binds selector values to ? placeholders, e.g. "{id} = ?".
type UserSelectorConfig struct {
	WhereClause string `json:"where_clause"`
}

// ColumnOutputConfig pairs a column with the transformer applied when an
// accessor reads it.
type ColumnOutputConfig struct {
	Column      uctypes.ResourceID `json:"column"`
	Transformer uctypes.ResourceID `json:"transformer"`
}

// ColumnInputConfig pairs a column with the validator applied when a
// mutator writes it.
type ColumnInputConfig struct {
	Column    uctypes.ResourceID `json:"column"`
	Validator uctypes.ResourceID `json:"validator"`
}

// Accessor is a named, versioned read API over the user store.
type Accessor struct {
	ID                uuid.UUID            `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Version           int                  `json:"version"`
	Columns           []ColumnOutputConfig `json:"columns"`
	AccessPolicy      uctypes.ResourceID   `json:"access_policy"`
	TokenAccessPolicy uctypes.ResourceID   `json:"token_access_policy"`
	SelectorConfig    UserSelectorConfig   `json:"selector_config"`
	Purposes          []uctypes.ResourceID `json:"purposes"`
}

// Mutator is a named, versioned write API over the user store.
type Mutator struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Version        int                 `json:"version"`
	Columns        []ColumnInputConfig `json:"columns"`
	AccessPolicy   uctypes.ResourceID  `json:"access_policy"`
	SelectorConfig UserSelectorConfig  `json:"selector_config"`
}

// Validator checks or normalizes a value before a mutator stores it.
type Validator struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Function   string    `json:"function"`
	Parameters string    `json:"parameters"`
}

// UserResponse is a user record as returned by the authn endpoints.
// UpdatedAt is Unix seconds.
type UserResponse struct {
	ID             uuid.UUID      `json:"id"`
	UpdatedAt      int64          `json:"updated_at"`
	Profile        map[string]any `json:"profile"`
	OrganizationID uuid.UUID      `json:"organization_id"`
}

// ValueAndPurposes is one column's entry in a mutator's row data: the
// value to store and the purposes being granted for it. Value accepts
// the MutatorColumn* sentinels in place of a concrete value.
type ValueAndPurposes struct {
	Value            any                  `json:"value"`
	PurposeAdditions []uctypes.ResourceID `json:"purpose_additions"`
}

// Address is the structured value of an address-typed column.
type Address struct {
	Country            string `json:"country,omitempty"`
	Name               string `json:"name,omitempty"`
	Organization       string `json:"organization,omitempty"`
	StreetAddressLine1 string `json:"street_address_line_1,omitempty"`
	StreetAddressLine2 string `json:"street_address_line_2,omitempty"`
	DependentLocality  string `json:"dependent_locality,omitempty"`
	Locality           string `json:"locality,omitempty"`
	AdministrativeArea string `json:"administrative_area,omitempty"`
	PostCode           string `json:"post_code,omitempty"`
	SortingCode        string `json:"sorting_code,omitempty"`
}
