package uctypes

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestResourceIDMarshal(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	tests := []struct {
		name string
		rid  ResourceID
		want string
	}{
		{"by id", ByID(id), `{"id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"}`},
		{"by name", ByName("email"), `{"name":"email"}`},
		{"zero", ResourceID{}, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tt.rid)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshal = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestResourceIDUnmarshal(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	var rid ResourceID
	if err := json.Unmarshal([]byte(`{"id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee","name":"email"}`), &rid); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, ok := rid.ID()
	if !ok || got != id {
		t.Errorf("ID() = %s, %v; want %s, true", got, ok, id)
	}
	if _, ok := rid.Name(); ok {
		t.Error("Name() should not be set when the response carries an ID")
	}

	if err := json.Unmarshal([]byte(`{"name":"email"}`), &rid); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	name, ok := rid.Name()
	if !ok || name != "email" {
		t.Errorf("Name() = %q, %v; want \"email\", true", name, ok)
	}
}

func TestResourceIDHandles(t *testing.T) {
	t.Parallel()

	if ByName("phone").IsValid() != true {
		t.Error("name reference should be valid")
	}
	if (ResourceID{}).IsValid() {
		t.Error("zero value should be invalid")
	}
	if _, ok := ByName("phone").ID(); ok {
		t.Error("name reference should not report an ID")
	}
}
