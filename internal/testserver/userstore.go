package testserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/uctypes"
	"github.com/userclouds/sdk-go/pkg/userstore"
)

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Column userstore.Column `json:"column"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	column := body.Column
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.columns {
		if existing.Name == column.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if column.ID == uuid.Nil {
		column.ID = uuid.New()
	}
	s.columns[column.ID] = column
	writeJSON(w, http.StatusCreated, column)
}

func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.columns)
}

func (s *Server) handleGetColumn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.columns)
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Column userstore.Column `json:"column"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[id]; !ok {
		notFound(w)
		return
	}
	column := body.Column
	column.ID = id
	s.columns[id] = column
	writeJSON(w, http.StatusOK, column)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.columns)
}

func (s *Server) handleCreatePurpose(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Purpose userstore.Purpose `json:"purpose"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	purpose := body.Purpose
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.purposes {
		if existing.Name == purpose.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if purpose.ID == uuid.Nil {
		purpose.ID = uuid.New()
	}
	s.purposes[purpose.ID] = purpose
	writeJSON(w, http.StatusCreated, purpose)
}

func (s *Server) handleListPurposes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.purposes)
}

func (s *Server) handleGetPurpose(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.purposes)
}

func (s *Server) handleUpdatePurpose(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Purpose userstore.Purpose `json:"purpose"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.purposes[id]; !ok {
		notFound(w)
		return
	}
	purpose := body.Purpose
	purpose.ID = id
	s.purposes[id] = purpose
	writeJSON(w, http.StatusOK, purpose)
}

func (s *Server) handleDeletePurpose(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.purposes)
}

func (s *Server) handleCreateAccessor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Accessor userstore.Accessor `json:"accessor"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	accessor := body.Accessor
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accessors {
		if existing.Name == accessor.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if accessor.ID == uuid.Nil {
		accessor.ID = uuid.New()
	}
	accessor.Version = 1
	s.accessors[accessor.ID] = accessor
	writeJSON(w, http.StatusCreated, accessor)
}

func (s *Server) handleListAccessors(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.accessors)
}

func (s *Server) handleGetAccessor(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.accessors)
}

func (s *Server) handleUpdateAccessor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Accessor userstore.Accessor `json:"accessor"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.accessors[id]
	if !ok {
		notFound(w)
		return
	}
	accessor := body.Accessor
	accessor.ID = id
	accessor.Version = existing.Version + 1
	s.accessors[id] = accessor
	writeJSON(w, http.StatusOK, accessor)
}

func (s *Server) handleDeleteAccessor(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.accessors)
}

func (s *Server) handleCreateMutator(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mutator userstore.Mutator `json:"mutator"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	mutator := body.Mutator
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.mutators {
		if existing.Name == mutator.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if mutator.ID == uuid.Nil {
		mutator.ID = uuid.New()
	}
	mutator.Version = 1
	s.mutators[mutator.ID] = mutator
	writeJSON(w, http.StatusCreated, mutator)
}

func (s *Server) handleListMutators(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.mutators)
}

func (s *Server) handleGetMutator(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.mutators)
}

func (s *Server) handleUpdateMutator(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Mutator userstore.Mutator `json:"mutator"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.mutators[id]
	if !ok {
		notFound(w)
		return
	}
	mutator := body.Mutator
	mutator.ID = id
	mutator.Version = existing.Version + 1
	s.mutators[id] = mutator
	writeJSON(w, http.StatusOK, mutator)
}

func (s *Server) handleDeleteMutator(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.mutators)
}

// columnName resolves a column reference to its name. The pseudo-columns
// "id" and "created" are only addressable by name.
func (s *Server) columnName(rid uctypes.ResourceID) (string, bool) {
	if name, ok := rid.Name(); ok {
		return name, true
	}
	if id, ok := rid.ID(); ok {
		if column, ok := s.columns[id]; ok {
			return column.Name, true
		}
	}
	return "", false
}

// selectUser resolves the selector values against the only selector the
// fake understands, "{id} = ?".
func (s *Server) selectUser(whereClause string, selectorValues []any) (userstore.UserResponse, bool) {
	if whereClause != "{id} = ?" || len(selectorValues) != 1 {
		return userstore.UserResponse{}, false
	}
	raw, ok := selectorValues[0].(string)
	if !ok {
		return userstore.UserResponse{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return userstore.UserResponse{}, false
	}
	user, ok := s.users[id]
	return user, ok
}

func (s *Server) handleExecuteAccessor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessorID     uuid.UUID      `json:"accessor_id"`
		Context        map[string]any `json:"context"`
		SelectorValues []any          `json:"selector_values"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	accessor, ok := s.accessors[req.AccessorID]
	if !ok {
		notFound(w)
		return
	}
	user, ok := s.selectUser(accessor.SelectorConfig.WhereClause, req.SelectorValues)
	if !ok {
		writeJSON(w, http.StatusOK, []string{})
		return
	}

	// The fake applies no transformers; every configured column is
	// returned as stored.
	row := make(map[string]any, len(accessor.Columns))
	for _, cfg := range accessor.Columns {
		name, ok := s.columnName(cfg.Column)
		if !ok {
			writeError(w, http.StatusBadRequest, "accessor references unknown column")
			return
		}
		if name == "id" {
			row[name] = user.ID.String()
			continue
		}
		row[name] = user.Profile[name]
	}
	encoded, err := json.Marshal(row)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, []string{string(encoded)})
}

func (s *Server) handleExecuteMutator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MutatorID      uuid.UUID                              `json:"mutator_id"`
		Context        map[string]any                         `json:"context"`
		SelectorValues []any                                  `json:"selector_values"`
		RowData        map[string]userstore.ValueAndPurposes `json:"row_data"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mutator, ok := s.mutators[req.MutatorID]
	if !ok {
		notFound(w)
		return
	}
	user, ok := s.selectUser(mutator.SelectorConfig.WhereClause, req.SelectorValues)
	if !ok {
		notFound(w)
		return
	}

	allowed := make(map[string]bool, len(mutator.Columns))
	for _, cfg := range mutator.Columns {
		name, ok := s.columnName(cfg.Column)
		if !ok {
			writeError(w, http.StatusBadRequest, "mutator references unknown column")
			return
		}
		allowed[name] = true
	}
	for name, entry := range req.RowData {
		if !allowed[name] {
			writeError(w, http.StatusBadRequest, "column not configured on mutator: "+name)
			return
		}
		user.Profile[name] = entry.Value
	}
	user.UpdatedAt = time.Now().Unix()
	s.users[user.ID] = user
	writeJSON(w, http.StatusOK, map[string]any{"user_ids": []string{user.ID.String()}})
}

// handleCreateUserWithMutator creates a user and seeds its profile in
// one call. The response body is the bare user ID.
func (s *Server) handleCreateUserWithMutator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        *uuid.UUID                             `json:"id"`
		MutatorID uuid.UUID                              `json:"mutator_id"`
		Context   map[string]any                         `json:"context"`
		RowData   map[string]userstore.ValueAndPurposes `json:"row_data"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mutator, ok := s.mutators[req.MutatorID]
	if !ok {
		notFound(w)
		return
	}
	allowed := make(map[string]bool, len(mutator.Columns))
	for _, cfg := range mutator.Columns {
		name, ok := s.columnName(cfg.Column)
		if !ok {
			writeError(w, http.StatusBadRequest, "mutator references unknown column")
			return
		}
		allowed[name] = true
	}
	user := userstore.UserResponse{
		ID:        uuid.New(),
		UpdatedAt: time.Now().Unix(),
		Profile:   map[string]any{},
	}
	if req.ID != nil {
		user.ID = *req.ID
	}
	for name, entry := range req.RowData {
		if !allowed[name] {
			writeError(w, http.StatusBadRequest, "column not configured on mutator: "+name)
			return
		}
		user.Profile[name] = entry.Value
	}
	s.users[user.ID] = user
	writeJSON(w, http.StatusCreated, user.ID)
}

func (s *Server) handleDownloadSDK(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/x-python")
	_, _ = w.Write([]byte("# generated userstore sdk\n"))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID             *uuid.UUID `json:"id"`
		Username       string     `json:"username"`
		OrganizationID *uuid.UUID `json:"organization_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user := userstore.UserResponse{
		ID:        uuid.New(),
		UpdatedAt: time.Now().Unix(),
		Profile:   map[string]any{},
	}
	if req.ID != nil {
		user.ID = *req.ID
	}
	if req.OrganizationID != nil {
		user.OrganizationID = *req.OrganizationID
	}
	if req.Username != "" {
		user.Profile["email"] = req.Username
	}
	s.users[user.ID] = user
	writeJSON(w, http.StatusCreated, map[string]any{"id": user.ID.String()})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := r.URL.Query().Get("email")
	matched := make(map[uuid.UUID]userstore.UserResponse, len(s.users))
	for id, user := range s.users {
		if email != "" && user.Profile["email"] != email {
			continue
		}
		matched[id] = user
	}
	writePage(w, r, matched)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.users)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Profile map[string]any `json:"profile"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		notFound(w)
		return
	}
	user.Profile = req.Profile
	user.UpdatedAt = time.Now().Unix()
	s.users[id] = user
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.users)
}
