package uctypes

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ResourceID references another resource by exactly one of its two
// handles: server-assigned ID or unique name. The zero value is invalid;
// construct values with ByID or ByName.
type ResourceID struct {
	id   uuid.UUID
	name string
}

// ByID references a resource by its ID.
func ByID(id uuid.UUID) ResourceID {
	return ResourceID{id: id}
}

// ByName references a resource by its name.
func ByName(name string) ResourceID {
	return ResourceID{name: name}
}

// ID returns the ID handle. The second return is false for name
// references.
func (r ResourceID) ID() (uuid.UUID, bool) {
	return r.id, r.id != uuid.Nil
}

// Name returns the name handle. The second return is false for ID
// references.
func (r ResourceID) Name() (string, bool) {
	return r.name, r.id == uuid.Nil && r.name != ""
}

// IsValid reports whether either handle is set.
func (r ResourceID) IsValid() bool {
	return r.id != uuid.Nil || r.name != ""
}

// String implements fmt.Stringer.
func (r ResourceID) String() string {
	switch {
	case r.id != uuid.Nil:
		return fmt.Sprintf("ResourceID(%s)", r.id)
	case r.name != "":
		return fmt.Sprintf("ResourceID(%s)", r.name)
	}
	return "ResourceID()"
}

type resourceIDWire struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Name *string    `json:"name,omitempty"`
}

// MarshalJSON emits only the populated handle.
func (r ResourceID) MarshalJSON() ([]byte, error) {
	var w resourceIDWire
	switch {
	case r.id != uuid.Nil:
		w.ID = &r.id
	case r.name != "":
		w.Name = &r.name
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts responses that carry both handles, preferring
// the ID.
func (r *ResourceID) UnmarshalJSON(data []byte) error {
	var w resourceIDWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = ResourceID{}
	if w.ID != nil && *w.ID != uuid.Nil {
		r.id = *w.ID
		return nil
	}
	if w.Name != nil {
		r.name = *w.Name
	}
	return nil
}
