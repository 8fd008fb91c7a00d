package testserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/tokenizer"
	"github.com/userclouds/sdk-go/pkg/uctypes"
)

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessPolicyTemplate tokenizer.AccessPolicyTemplate `json:"access_policy_template"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	template := body.AccessPolicyTemplate
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.templates {
		if existing.Name == template.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	template.Version = 0
	s.templates[template.ID] = template
	writeJSON(w, http.StatusCreated, template)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name := r.URL.Query().Get("name"); name != "" {
		for _, template := range s.templates {
			if template.Name == name {
				writeJSON(w, http.StatusOK, template)
				return
			}
		}
		notFound(w)
		return
	}
	writePage(w, r, s.templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.templates)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		AccessPolicyTemplate tokenizer.AccessPolicyTemplate `json:"access_policy_template"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.templates[id]
	if !ok {
		notFound(w)
		return
	}
	template := body.AccessPolicyTemplate
	template.ID = id
	template.Version = existing.Version + 1
	s.templates[id] = template
	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	version, err := strconv.Atoi(r.URL.Query().Get("template_version"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template_version")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.templates[id]
	if !ok {
		notFound(w)
		return
	}
	if existing.Version != version {
		writeError(w, http.StatusConflict, "template version mismatch")
		return
	}
	delete(s.templates, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessPolicy tokenizer.AccessPolicy `json:"access_policy"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	policy := body.AccessPolicy
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.policies {
		if existing.Name == policy.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	policy.Version = 0
	s.policies[policy.ID] = policy
	writeJSON(w, http.StatusCreated, policy)
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name := r.URL.Query().Get("name"); name != "" {
		for _, policy := range s.policies {
			if policy.Name == name {
				writeJSON(w, http.StatusOK, policy)
				return
			}
		}
		notFound(w)
		return
	}
	writePage(w, r, s.policies)
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	getFrom(w, r, s.policies)
}

func (s *Server) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		AccessPolicy tokenizer.AccessPolicy `json:"access_policy"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.policies[id]
	if !ok {
		notFound(w)
		return
	}
	policy := body.AccessPolicy
	policy.ID = id
	policy.Version = existing.Version + 1
	s.policies[id] = policy
	writeJSON(w, http.StatusOK, policy)
}

func (s *Server) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	version, err := strconv.Atoi(r.URL.Query().Get("policy_version"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid policy_version")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.policies[id]
	if !ok {
		notFound(w)
		return
	}
	if existing.Version != version {
		writeError(w, http.StatusConflict, "policy version mismatch")
		return
	}
	delete(s.policies, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateTransformer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Transformer tokenizer.Transformer `json:"transformer"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	transformer := body.Transformer
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.transformers {
		if existing.Name == transformer.Name {
			writeIdentical(w, existing.ID)
			return
		}
	}
	if transformer.ID == uuid.Nil {
		transformer.ID = uuid.New()
	}
	s.transformers[transformer.ID] = transformer
	writeJSON(w, http.StatusCreated, transformer)
}

func (s *Server) handleListTransformers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, r, s.transformers)
}

func (s *Server) handleDeleteTransformer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteFrom(w, r, s.transformers)
}

type tokenRequest struct {
	Data            string             `json:"data"`
	TransformerRID  uctypes.ResourceID `json:"transformer_rid"`
	AccessPolicyRID uctypes.ResourceID `json:"access_policy_rid"`
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.mintToken(req)
	writeJSON(w, http.StatusCreated, map[string]any{"data": token})
}

// mintToken stores a fresh token for the request. Callers hold s.mu.
func (s *Server) mintToken(req tokenRequest) string {
	now := time.Now().UTC()
	token := "tok_" + uuid.New().String()
	s.tokens[token] = tokenRecord{
		ID:              uuid.New(),
		Data:            req.Data,
		TransformerRID:  req.TransformerRID,
		AccessPolicyRID: req.AccessPolicyRID,
		Created:         now,
		Updated:         now,
	}
	return token
}

func (s *Server) handleLookupToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := []string{}
	for token, record := range s.tokens {
		if record.Data == req.Data &&
			record.TransformerRID == req.TransformerRID &&
			record.AccessPolicyRID == req.AccessPolicyRID {
			tokens = append(tokens, token)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

func (s *Server) handleLookupOrCreateTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data             []string             `json:"data"`
		TransformerRIDs  []uctypes.ResourceID `json:"transformer_rids"`
		AccessPolicyRIDs []uctypes.ResourceID `json:"access_policy_rids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.TransformerRIDs) != len(req.Data) || len(req.AccessPolicyRIDs) != len(req.Data) {
		writeError(w, http.StatusBadRequest, "data, transformer_rids, and access_policy_rids must be the same length")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := make([]string, len(req.Data))
	for i, data := range req.Data {
		one := tokenRequest{
			Data:            data,
			TransformerRID:  req.TransformerRIDs[i],
			AccessPolicyRID: req.AccessPolicyRIDs[i],
		}
		found := ""
		for token, record := range s.tokens {
			if record.Data == one.Data &&
				record.TransformerRID == one.TransformerRID &&
				record.AccessPolicyRID == one.AccessPolicyRID {
				found = token
				break
			}
		}
		if found == "" {
			found = s.mintToken(one)
		}
		tokens[i] = found
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

func (s *Server) handleResolveTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tokens []string `json:"tokens"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	resolved := make([]map[string]string, 0, len(req.Tokens))
	for _, token := range req.Tokens {
		entry := map[string]string{"token": token, "data": ""}
		if record, ok := s.tokens[token]; ok {
			entry["data"] = record.Data
		}
		resolved = append(resolved, entry)
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (s *Server) handleInspectToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.tokens[req.Token]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, tokenizer.InspectTokenResponse{
		ID:           record.ID,
		Token:        req.Token,
		Created:      record.Created,
		Updated:      record.Updated,
		Transformer:  s.findTransformer(record.TransformerRID),
		AccessPolicy: s.findPolicy(record.AccessPolicyRID),
	})
}

func (s *Server) findTransformer(rid uctypes.ResourceID) tokenizer.Transformer {
	for _, transformer := range s.transformers {
		if id, ok := rid.ID(); ok && transformer.ID == id {
			return transformer
		}
		if name, ok := rid.Name(); ok && transformer.Name == name {
			return transformer
		}
	}
	id, _ := rid.ID()
	return tokenizer.Transformer{ID: id}
}

func (s *Server) findPolicy(rid uctypes.ResourceID) tokenizer.AccessPolicy {
	for _, policy := range s.policies {
		if id, ok := rid.ID(); ok && policy.ID == id {
			return policy
		}
		if name, ok := rid.Name(); ok && policy.Name == name {
			return policy
		}
	}
	id, _ := rid.ID()
	return tokenizer.AccessPolicy{ID: id}
}

func (s *Server) handleDeleteToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		notFound(w)
		return
	}
	delete(s.tokens, token)
	w.WriteHeader(http.StatusNoContent)
}
