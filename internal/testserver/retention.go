package testserver

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/uctypes"
	"github.com/userclouds/sdk-go/pkg/userstore"
)

// maxRetention is the longest retention the fake tenant allows.
var maxRetention = userstore.RetentionDuration{Unit: userstore.DurationUnitYear, Duration: 10}

func retentionResponse(d userstore.ColumnRetentionDuration) userstore.ColumnRetentionDurationResponse {
	return userstore.ColumnRetentionDurationResponse{
		MaxDuration:       maxRetention,
		RetentionDuration: d,
	}
}

// zeroRetention is what an unconfigured scope resolves to: use-default
// with no retained duration.
func zeroRetention(columnID, purposeID uuid.UUID) userstore.ColumnRetentionDuration {
	return userstore.ColumnRetentionDuration{
		DurationType: uctypes.DataLifeCycleStateSoftDeleted,
		ColumnID:     columnID,
		PurposeID:    purposeID,
		UseDefault:   true,
	}
}

// resolveRetention applies scope specificity: column setting, then
// purpose setting, then tenant setting, then the zero default. Callers
// hold s.mu.
func (s *Server) resolveRetention(columnID, purposeID uuid.UUID) userstore.ColumnRetentionDuration {
	if columnID != uuid.Nil {
		for _, d := range s.columnRetention[columnID] {
			if d.PurposeID == purposeID {
				return d
			}
		}
	}
	if purposeID != uuid.Nil {
		for _, d := range s.purposeRetention {
			if d.PurposeID == purposeID {
				return d
			}
		}
	}
	for _, d := range s.tenantRetention {
		return d
	}
	return zeroRetention(columnID, purposeID)
}

func (s *Server) handleCreateTenantRetention(w http.ResponseWriter, r *http.Request) {
	var req userstore.UpdateColumnRetentionDurationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d := req.RetentionDuration
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.tenantRetention[d.ID] = d
	writeJSON(w, http.StatusCreated, retentionResponse(d))
}

func (s *Server) handleGetDefaultTenantRetention(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, retentionResponse(s.resolveRetention(uuid.Nil, uuid.Nil)))
}

func (s *Server) handleGetTenantRetention(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.tenantRetention[id]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, retentionResponse(d))
}

func (s *Server) handleUpdateTenantRetention(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req userstore.UpdateColumnRetentionDurationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tenantRetention[id]
	if !ok {
		notFound(w)
		return
	}
	d := req.RetentionDuration
	d.ID = id
	d.Version = existing.Version + 1
	s.tenantRetention[id] = d
	writeJSON(w, http.StatusOK, retentionResponse(d))
}

func (s *Server) handleDeleteTenantRetention(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.tenantRetention)
}

func (s *Server) handleCreatePurposeRetention(w http.ResponseWriter, r *http.Request) {
	purposeID, ok := pathID(w, r, "purposeID")
	if !ok {
		return
	}
	var req userstore.UpdateColumnRetentionDurationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d := req.RetentionDuration
	d.PurposeID = purposeID
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.purposeRetention[d.ID] = d
	writeJSON(w, http.StatusCreated, retentionResponse(d))
}

func (s *Server) handleGetDefaultPurposeRetention(w http.ResponseWriter, r *http.Request) {
	purposeID, ok := pathID(w, r, "purposeID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, retentionResponse(s.resolveRetention(uuid.Nil, purposeID)))
}

func (s *Server) handleGetPurposeRetention(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.purposeRetention[id]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, retentionResponse(d))
}

func (s *Server) handleUpdatePurposeRetention(w http.ResponseWriter, r *http.Request) {
	purposeID, ok := pathID(w, r, "purposeID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req userstore.UpdateColumnRetentionDurationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.purposeRetention[id]
	if !ok {
		notFound(w)
		return
	}
	d := req.RetentionDuration
	d.ID = id
	d.PurposeID = purposeID
	d.Version = existing.Version + 1
	s.purposeRetention[id] = d
	writeJSON(w, http.StatusOK, retentionResponse(d))
}

func (s *Server) handleDeletePurposeRetention(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.purposeRetention)
}

func (s *Server) handleGetColumnRetentions(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathID(w, r, "columnID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	resolved := make([]userstore.ColumnRetentionDuration, 0, len(s.purposes))
	for purposeID := range s.purposes {
		resolved = append(resolved, s.resolveRetention(columnID, purposeID))
	}
	writeJSON(w, http.StatusOK, userstore.ColumnRetentionDurationsResponse{
		MaxDuration:        maxRetention,
		RetentionDurations: resolved,
	})
}

func (s *Server) handleUpdateColumnRetentions(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathID(w, r, "columnID")
	if !ok {
		return
	}
	var req userstore.UpdateColumnRetentionDurationsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.columnRetention[columnID]
	if settings == nil {
		settings = make(map[uuid.UUID]userstore.ColumnRetentionDuration)
		s.columnRetention[columnID] = settings
	}
	updated := make([]userstore.ColumnRetentionDuration, 0, len(req.RetentionDurations))
	for _, d := range req.RetentionDurations {
		d.ColumnID = columnID
		if d.UseDefault {
			// Clearing a column-purpose override.
			for id, existing := range settings {
				if existing.PurposeID == d.PurposeID {
					delete(settings, id)
				}
			}
			updated = append(updated, s.resolveRetention(uuid.Nil, d.PurposeID))
			continue
		}
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		settings[d.ID] = d
		updated = append(updated, d)
	}
	writeJSON(w, http.StatusOK, userstore.ColumnRetentionDurationsResponse{
		MaxDuration:        maxRetention,
		RetentionDurations: updated,
	})
}

func (s *Server) handleGetColumnRetention(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathID(w, r, "columnID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.columnRetention[columnID][id]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, retentionResponse(d))
}

func (s *Server) handleUpdateColumnRetention(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathID(w, r, "columnID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req userstore.UpdateColumnRetentionDurationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.columnRetention[columnID][id]
	if !ok {
		notFound(w)
		return
	}
	d := req.RetentionDuration
	d.ID = id
	d.ColumnID = columnID
	d.Version = existing.Version + 1
	s.columnRetention[columnID][id] = d
	writeJSON(w, http.StatusOK, retentionResponse(d))
}

func (s *Server) handleDeleteColumnRetention(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathID(w, r, "columnID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.columnRetention[columnID])
}
