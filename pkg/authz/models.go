package authz

import (
	"time"

	"github.com/google/uuid"
)

// Object is a node in the authorization graph. Alias is an optional
// human-readable handle, unique per type.
type Object struct {
	ID             uuid.UUID  `json:"id"`
	TypeID         uuid.UUID  `json:"type_id"`
	Alias          string     `json:"alias,omitempty"`
	Created        *time.Time `json:"created,omitempty"`
	Updated        *time.Time `json:"updated,omitempty"`
	Deleted        *time.Time `json:"deleted,omitempty"`
	OrganizationID uuid.UUID  `json:"organization_id,omitempty"`
}

// ObjectType names a class of objects.
type ObjectType struct {
	ID             uuid.UUID  `json:"id"`
	TypeName       string     `json:"type_name"`
	Created        *time.Time `json:"created,omitempty"`
	Updated        *time.Time `json:"updated,omitempty"`
	Deleted        *time.Time `json:"deleted,omitempty"`
	OrganizationID uuid.UUID  `json:"organization_id,omitempty"`
}

// Attribute is a named permission an edge type carries. Exactly one of
// Direct, Inherit, or Propagate should be set: Direct grants the
// attribute across the edge, Inherit copies the target's attributes to
// the source, and Propagate extends the source's attributes across the
// edge.
type Attribute struct {
	Name      string `json:"name"`
	Direct    bool   `json:"direct"`
	Inherit   bool   `json:"inherit"`
	Propagate bool   `json:"propagate"`
}

// EdgeType defines the edges allowed between two object types and the
// attributes those edges carry.
type EdgeType struct {
	ID                 uuid.UUID   `json:"id"`
	TypeName           string      `json:"type_name"`
	SourceObjectTypeID uuid.UUID   `json:"source_object_type_id"`
	TargetObjectTypeID uuid.UUID   `json:"target_object_type_id"`
	Attributes         []Attribute `json:"attributes"`
	Created            *time.Time  `json:"created,omitempty"`
	Updated            *time.Time  `json:"updated,omitempty"`
	Deleted            *time.Time  `json:"deleted,omitempty"`
	OrganizationID     uuid.UUID   `json:"organization_id,omitempty"`
}

// Edge is a typed, directed connection between two objects.
type Edge struct {
	ID             uuid.UUID  `json:"id"`
	EdgeTypeID     uuid.UUID  `json:"edge_type_id"`
	SourceObjectID uuid.UUID  `json:"source_object_id"`
	TargetObjectID uuid.UUID  `json:"target_object_id"`
	Created        *time.Time `json:"created,omitempty"`
	Updated        *time.Time `json:"updated,omitempty"`
	Deleted        *time.Time `json:"deleted,omitempty"`
}

// Organization partitions a tenant's objects for multi-tenant
// customers.
type Organization struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	Region  string     `json:"region"`
	Created *time.Time `json:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty"`
	Deleted *time.Time `json:"deleted,omitempty"`
}
