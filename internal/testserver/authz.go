package testserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/authz"
)

func stamp(created, updated **time.Time) {
	now := time.Now().UTC()
	*created = &now
	*updated = &now
}

func (s *Server) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	var object authz.Object
	if !decodeBody(w, r, &object) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if object.Alias != "" {
		for _, existing := range s.objects {
			if existing.Alias == object.Alias && existing.TypeID == object.TypeID {
				writeIdentical(w, existing.ID)
				return
			}
		}
	}
	if object.ID == uuid.Nil {
		object.ID = uuid.New()
	} else if _, ok := s.objects[object.ID]; ok {
		writeIdentical(w, object.ID)
		return
	}
	stamp(&object.Created, &object.Updated)
	s.objects[object.ID] = object
	writeJSON(w, http.StatusCreated, object)
}

func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.objects)
}

func (s *Server) handleGetObject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.objects)
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		notFound(w)
		return
	}
	delete(s.objects, id)
	for edgeID, edge := range s.edges {
		if edge.SourceObjectID == id || edge.TargetObjectID == id {
			delete(s.edges, edgeID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateObjectType(w http.ResponseWriter, r *http.Request) {
	var objectType authz.ObjectType
	if !decodeBody(w, r, &objectType) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.objectTypes {
		if existing.TypeName == objectType.TypeName {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if objectType.ID == uuid.Nil {
		objectType.ID = uuid.New()
	}
	stamp(&objectType.Created, &objectType.Updated)
	s.objectTypes[objectType.ID] = objectType
	writeJSON(w, http.StatusCreated, objectType)
}

func (s *Server) handleListObjectTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.objectTypes)
}

func (s *Server) handleGetObjectType(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.objectTypes)
}

func (s *Server) handleDeleteObjectType(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.objectTypes)
}

func (s *Server) handleCreateEdge(w http.ResponseWriter, r *http.Request) {
	var edge authz.Edge
	if !decodeBody(w, r, &edge) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.edges {
		if existing.EdgeTypeID == edge.EdgeTypeID &&
			existing.SourceObjectID == edge.SourceObjectID &&
			existing.TargetObjectID == edge.TargetObjectID {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if edge.ID == uuid.Nil {
		edge.ID = uuid.New()
	}
	stamp(&edge.Created, &edge.Updated)
	s.edges[edge.ID] = edge
	writeJSON(w, http.StatusCreated, edge)
}

func (s *Server) handleListEdges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.edges)
}

func (s *Server) handleGetEdge(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.edges)
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.edges)
}

func (s *Server) handleCreateEdgeType(w http.ResponseWriter, r *http.Request) {
	var edgeType authz.EdgeType
	if !decodeBody(w, r, &edgeType) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.edgeTypes {
		if existing.TypeName == edgeType.TypeName {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if edgeType.ID == uuid.Nil {
		edgeType.ID = uuid.New()
	}
	stamp(&edgeType.Created, &edgeType.Updated)
	s.edgeTypes[edgeType.ID] = edgeType
	writeJSON(w, http.StatusCreated, edgeType)
}

func (s *Server) handleListEdgeTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.edgeTypes)
}

func (s *Server) handleGetEdgeType(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.edgeTypes)
}

func (s *Server) handleDeleteEdgeType(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.edgeTypes)
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var organization authz.Organization
	if !decodeBody(w, r, &organization) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.organizations {
		if existing.Name == organization.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if organization.ID == uuid.Nil {
		organization.ID = uuid.New()
	}
	stamp(&organization.Created, &organization.Updated)
	s.organizations[organization.ID] = organization
	writeJSON(w, http.StatusCreated, organization)
}

func (s *Server) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.organizations)
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.organizations)
}

func (s *Server) handleDeleteOrganization(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.organizations)
}

func (s *Server) handleCheckAttribute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, err := uuid.Parse(q.Get("source_object_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source_object_id")
		return
	}
	target, err := uuid.Parse(q.Get("target_object_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target_object_id")
		return
	}
	attribute := q.Get("attribute")

	s.mu.Lock()
	defer s.mu.Unlock()
	has := s.hasAttribute(source, target, attribute, make(map[uuid.UUID]bool))
	writeJSON(w, http.StatusOK, map[string]any{"has_attribute": has})
}

// hasAttribute walks the graph: a direct edge grants the attribute on
// its target, propagate edges extend a held attribute across further
// hops, and inherit edges delegate the check to the edge target.
func (s *Server) hasAttribute(source, target uuid.UUID, attribute string, seen map[uuid.UUID]bool) bool {
	if seen[source] {
		return false
	}
	seen[source] = true

	held := make(map[uuid.UUID]bool)
	var extend func(id uuid.UUID)
	extend = func(id uuid.UUID) {
		if held[id] {
			return
		}
		held[id] = true
		for _, edge := range s.edges {
			if edge.SourceObjectID != id {
				continue
			}
			if s.edgeHasAttribute(edge, attribute, func(a authz.Attribute) bool { return a.Propagate }) {
				extend(edge.TargetObjectID)
			}
		}
	}

	for _, edge := range s.edges {
		if edge.SourceObjectID != source {
			continue
		}
		if s.edgeHasAttribute(edge, attribute, func(a authz.Attribute) bool { return a.Direct }) {
			extend(edge.TargetObjectID)
		}
		if s.edgeHasAttribute(edge, attribute, func(a authz.Attribute) bool { return a.Inherit }) {
			if s.hasAttribute(edge.TargetObjectID, target, attribute, seen) {
				return true
			}
		}
	}
	return held[target]
}

func (s *Server) edgeHasAttribute(edge authz.Edge, attribute string, match func(authz.Attribute) bool) bool {
	edgeType, ok := s.edgeTypes[edge.EdgeTypeID]
	if !ok {
		return false
	}
	for _, a := range edgeType.Attributes {
		if a.Name == attribute && match(a) {
			return true
		}
	}
	return false
}
