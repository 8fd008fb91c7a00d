// Package testserver is an in-memory fake of a tenant, sufficient for
// exercising the SDK packages in tests. It issues real signed JWTs,
// stores resources with server-assigned IDs, and reproduces the
// tenant's conflict, pagination, and deletion semantics.
package testserver

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/authz"
	"github.com/userclouds/sdk-go/pkg/tokenizer"
	"github.com/userclouds/sdk-go/pkg/uctypes"
	"github.com/userclouds/sdk-go/pkg/userstore"
)

// Credentials accepted by the token endpoint.
const (
	ClientID     = "test-client-id"
	ClientSecret = "test-client-secret"
)

// Config holds the tunable parts of the fake tenant.
type Config struct {
	// TokenTTL bounds the lifetime of issued access tokens. Defaults
	// to one hour.
	TokenTTL time.Duration
}

// Server is the fake tenant. Create one with New, mount Handler on an
// httptest.Server, and point a transport.Client at it.
type Server struct {
	mux *http.ServeMux

	tokenTTL   time.Duration
	signingKey []byte

	mu            sync.Mutex
	tokenRequests int
	issuedTokens  map[string]struct{}

	objects       map[uuid.UUID]authz.Object
	objectTypes   map[uuid.UUID]authz.ObjectType
	edges         map[uuid.UUID]authz.Edge
	edgeTypes     map[uuid.UUID]authz.EdgeType
	organizations map[uuid.UUID]authz.Organization

	columns   map[uuid.UUID]userstore.Column
	purposes  map[uuid.UUID]userstore.Purpose
	accessors map[uuid.UUID]userstore.Accessor
	mutators  map[uuid.UUID]userstore.Mutator
	users     map[uuid.UUID]userstore.UserResponse

	tenantRetention  map[uuid.UUID]userstore.ColumnRetentionDuration
	purposeRetention map[uuid.UUID]userstore.ColumnRetentionDuration
	columnRetention  map[uuid.UUID]map[uuid.UUID]userstore.ColumnRetentionDuration

	templates    map[uuid.UUID]tokenizer.AccessPolicyTemplate
	policies     map[uuid.UUID]tokenizer.AccessPolicy
	transformers map[uuid.UUID]tokenizer.Transformer
	tokens       map[string]tokenRecord
}

type tokenRecord struct {
	ID              uuid.UUID
	Data            string
	TransformerRID  uctypes.ResourceID
	AccessPolicyRID uctypes.ResourceID
	Created         time.Time
	Updated         time.Time
}

// New creates a fake tenant with default configuration.
func New() *Server {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a fake tenant with the given configuration.
func NewWithConfig(cfg Config) *Server {
	s := &Server{
		tokenTTL:         cfg.TokenTTL,
		signingKey:       []byte("testserver-signing-key-0123456789abcdef"),
		issuedTokens:     make(map[string]struct{}),
		objects:          make(map[uuid.UUID]authz.Object),
		objectTypes:      make(map[uuid.UUID]authz.ObjectType),
		edges:            make(map[uuid.UUID]authz.Edge),
		edgeTypes:        make(map[uuid.UUID]authz.EdgeType),
		organizations:    make(map[uuid.UUID]authz.Organization),
		columns:          make(map[uuid.UUID]userstore.Column),
		purposes:         make(map[uuid.UUID]userstore.Purpose),
		accessors:        make(map[uuid.UUID]userstore.Accessor),
		mutators:         make(map[uuid.UUID]userstore.Mutator),
		users:            make(map[uuid.UUID]userstore.UserResponse),
		tenantRetention:  make(map[uuid.UUID]userstore.ColumnRetentionDuration),
		purposeRetention: make(map[uuid.UUID]userstore.ColumnRetentionDuration),
		columnRetention:  make(map[uuid.UUID]map[uuid.UUID]userstore.ColumnRetentionDuration),
		templates:        make(map[uuid.UUID]tokenizer.AccessPolicyTemplate),
		policies:         make(map[uuid.UUID]tokenizer.AccessPolicy),
		transformers:     make(map[uuid.UUID]tokenizer.Transformer),
		tokens:           make(map[string]tokenRecord),
	}
	if s.tokenTTL == 0 {
		s.tokenTTL = time.Hour
	}
	s.mux = http.NewServeMux()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /oidc/token", s.handleToken)

	s.mux.HandleFunc("POST /authz/objects", s.handleCreateObject)
	s.mux.HandleFunc("GET /authz/objects", s.handleListObjects)
	s.mux.HandleFunc("GET /authz/objects/{id}", s.handleGetObject)
	s.mux.HandleFunc("DELETE /authz/objects/{id}", s.handleDeleteObject)
	s.mux.HandleFunc("POST /authz/objecttypes", s.handleCreateObjectType)
	s.mux.HandleFunc("GET /authz/objecttypes", s.handleListObjectTypes)
	s.mux.HandleFunc("GET /authz/objecttypes/{id}", s.handleGetObjectType)
	s.mux.HandleFunc("DELETE /authz/objecttypes/{id}", s.handleDeleteObjectType)
	s.mux.HandleFunc("POST /authz/edges", s.handleCreateEdge)
	s.mux.HandleFunc("GET /authz/edges", s.handleListEdges)
	s.mux.HandleFunc("GET /authz/edges/{id}", s.handleGetEdge)
	s.mux.HandleFunc("DELETE /authz/edges/{id}", s.handleDeleteEdge)
	s.mux.HandleFunc("POST /authz/edgetypes", s.handleCreateEdgeType)
	s.mux.HandleFunc("GET /authz/edgetypes", s.handleListEdgeTypes)
	s.mux.HandleFunc("GET /authz/edgetypes/{id}", s.handleGetEdgeType)
	s.mux.HandleFunc("DELETE /authz/edgetypes/{id}", s.handleDeleteEdgeType)
	s.mux.HandleFunc("POST /authz/organizations", s.handleCreateOrganization)
	s.mux.HandleFunc("GET /authz/organizations", s.handleListOrganizations)
	s.mux.HandleFunc("GET /authz/organizations/{id}", s.handleGetOrganization)
	s.mux.HandleFunc("DELETE /authz/organizations/{id}", s.handleDeleteOrganization)
	s.mux.HandleFunc("GET /authz/checkattribute", s.handleCheckAttribute)

	s.mux.HandleFunc("POST /userstore/config/columns", s.handleCreateColumn)
	s.mux.HandleFunc("GET /userstore/config/columns", s.handleListColumns)
	s.mux.HandleFunc("GET /userstore/config/columns/{id}", s.handleGetColumn)
	s.mux.HandleFunc("PUT /userstore/config/columns/{id}", s.handleUpdateColumn)
	s.mux.HandleFunc("DELETE /userstore/config/columns/{id}", s.handleDeleteColumn)
	s.mux.HandleFunc("POST /userstore/config/purposes", s.handleCreatePurpose)
	s.mux.HandleFunc("GET /userstore/config/purposes", s.handleListPurposes)
	s.mux.HandleFunc("GET /userstore/config/purposes/{id}", s.handleGetPurpose)
	s.mux.HandleFunc("PUT /userstore/config/purposes/{id}", s.handleUpdatePurpose)
	s.mux.HandleFunc("DELETE /userstore/config/purposes/{id}", s.handleDeletePurpose)
	s.mux.HandleFunc("POST /userstore/config/accessors", s.handleCreateAccessor)
	s.mux.HandleFunc("GET /userstore/config/accessors", s.handleListAccessors)
	s.mux.HandleFunc("GET /userstore/config/accessors/{id}", s.handleGetAccessor)
	s.mux.HandleFunc("PUT /userstore/config/accessors/{id}", s.handleUpdateAccessor)
	s.mux.HandleFunc("DELETE /userstore/config/accessors/{id}", s.handleDeleteAccessor)
	s.mux.HandleFunc("POST /userstore/config/mutators", s.handleCreateMutator)
	s.mux.HandleFunc("GET /userstore/config/mutators", s.handleListMutators)
	s.mux.HandleFunc("GET /userstore/config/mutators/{id}", s.handleGetMutator)
	s.mux.HandleFunc("PUT /userstore/config/mutators/{id}", s.handleUpdateMutator)
	s.mux.HandleFunc("DELETE /userstore/config/mutators/{id}", s.handleDeleteMutator)

	s.mux.HandleFunc("POST /userstore/api/accessors", s.handleExecuteAccessor)
	s.mux.HandleFunc("POST /userstore/api/mutators", s.handleExecuteMutator)
	s.mux.HandleFunc("POST /userstore/api/users", s.handleCreateUserWithMutator)

	s.mux.HandleFunc("GET /userstore/download/codegensdk.py", s.handleDownloadSDK)

	s.mux.HandleFunc("POST /authn/users", s.handleCreateUser)
	s.mux.HandleFunc("GET /authn/users", s.handleListUsers)
	s.mux.HandleFunc("GET /authn/users/{id}", s.handleGetUser)
	s.mux.HandleFunc("PUT /authn/users/{id}", s.handleUpdateUser)
	s.mux.HandleFunc("DELETE /authn/users/{id}", s.handleDeleteUser)

	s.mux.HandleFunc("POST /userstore/config/softdeletedretentiondurations", s.handleCreateTenantRetention)
	s.mux.HandleFunc("GET /userstore/config/softdeletedretentiondurations", s.handleGetDefaultTenantRetention)
	s.mux.HandleFunc("GET /userstore/config/softdeletedretentiondurations/{id}", s.handleGetTenantRetention)
	s.mux.HandleFunc("PUT /userstore/config/softdeletedretentiondurations/{id}", s.handleUpdateTenantRetention)
	s.mux.HandleFunc("DELETE /userstore/config/softdeletedretentiondurations/{id}", s.handleDeleteTenantRetention)
	s.mux.HandleFunc("POST /userstore/config/purposes/{purposeID}/softdeletedretentiondurations", s.handleCreatePurposeRetention)
	s.mux.HandleFunc("GET /userstore/config/purposes/{purposeID}/softdeletedretentiondurations", s.handleGetDefaultPurposeRetention)
	s.mux.HandleFunc("GET /userstore/config/purposes/{purposeID}/softdeletedretentiondurations/{id}", s.handleGetPurposeRetention)
	s.mux.HandleFunc("PUT /userstore/config/purposes/{purposeID}/softdeletedretentiondurations/{id}", s.handleUpdatePurposeRetention)
	s.mux.HandleFunc("DELETE /userstore/config/purposes/{purposeID}/softdeletedretentiondurations/{id}", s.handleDeletePurposeRetention)
	s.mux.HandleFunc("GET /userstore/config/columns/{columnID}/softdeletedretentiondurations", s.handleGetColumnRetentions)
	s.mux.HandleFunc("POST /userstore/config/columns/{columnID}/softdeletedretentiondurations", s.handleUpdateColumnRetentions)
	s.mux.HandleFunc("GET /userstore/config/columns/{columnID}/softdeletedretentiondurations/{id}", s.handleGetColumnRetention)
	s.mux.HandleFunc("PUT /userstore/config/columns/{columnID}/softdeletedretentiondurations/{id}", s.handleUpdateColumnRetention)
	s.mux.HandleFunc("DELETE /userstore/config/columns/{columnID}/softdeletedretentiondurations/{id}", s.handleDeleteColumnRetention)

	s.mux.HandleFunc("POST /tokenizer/policies/accesstemplate", s.handleCreateTemplate)
	s.mux.HandleFunc("GET /tokenizer/policies/accesstemplate", s.handleListTemplates)
	s.mux.HandleFunc("GET /tokenizer/policies/accesstemplate/{id}", s.handleGetTemplate)
	s.mux.HandleFunc("PUT /tokenizer/policies/accesstemplate/{id}", s.handleUpdateTemplate)
	s.mux.HandleFunc("DELETE /tokenizer/policies/accesstemplate/{id}", s.handleDeleteTemplate)
	s.mux.HandleFunc("POST /tokenizer/policies/access", s.handleCreatePolicy)
	s.mux.HandleFunc("GET /tokenizer/policies/access", s.handleListPolicies)
	s.mux.HandleFunc("GET /tokenizer/policies/access/{id}", s.handleGetPolicy)
	s.mux.HandleFunc("PUT /tokenizer/policies/access/{id}", s.handleUpdatePolicy)
	s.mux.HandleFunc("DELETE /tokenizer/policies/access/{id}", s.handleDeletePolicy)
	s.mux.HandleFunc("POST /tokenizer/policies/transformation", s.handleCreateTransformer)
	s.mux.HandleFunc("GET /tokenizer/policies/transformation", s.handleListTransformers)
	s.mux.HandleFunc("DELETE /tokenizer/policies/transformation/{id}", s.handleDeleteTransformer)

	s.mux.HandleFunc("POST /tokenizer/tokens", s.handleCreateToken)
	s.mux.HandleFunc("DELETE /tokenizer/tokens", s.handleDeleteToken)
	s.mux.HandleFunc("POST /tokenizer/tokens/actions/lookup", s.handleLookupToken)
	s.mux.HandleFunc("POST /tokenizer/tokens/actions/lookuporcreate", s.handleLookupOrCreateTokens)
	s.mux.HandleFunc("POST /tokenizer/tokens/actions/resolve", s.handleResolveTokens)
	s.mux.HandleFunc("POST /tokenizer/tokens/actions/inspect", s.handleInspectToken)
}

// Handler returns the tenant's HTTP handler, with bearer-token
// enforcement on everything except the token endpoint.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oidc/token" && !s.authorized(r) {
			writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		s.mux.ServeHTTP(w, r)
	})
}

// TokenRequests reports how many times the token endpoint was called.
func (s *Server) TokenRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenRequests
}

func (s *Server) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok = s.issuedTokens[token]
	return ok
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok || username != ClientID || password != ClientSecret {
		writeError(w, http.StatusUnauthorized, "invalid client credentials")
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		writeError(w, http.StatusBadRequest, "unsupported grant type")
		return
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: s.signingKey}, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	now := time.Now()
	claims := jwt.Claims{
		Subject:  ClientID,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	s.tokenRequests++
	s.issuedTokens[token] = struct{}{}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(s.tokenTTL.Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":      msg,
		"request_id": uuid.New().String(),
	})
}

// writeIdentical reports a create that matched an existing resource.
func writeIdentical(w http.ResponseWriter, existingID uuid.UUID) {
	writeJSON(w, http.StatusConflict, map[string]any{
		"error": map[string]any{
			"error":     "resource already exists",
			"id":        existingID.String(),
			"identical": true,
		},
		"request_id": uuid.New().String(),
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "resource not found")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resource id")
		return uuid.Nil, false
	}
	return id, true
}

// page applies limit and starting_after cursor semantics to ids sorted
// in lexical UUID order.
func page(r *http.Request, ids []uuid.UUID) []uuid.UUID {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	var after uuid.UUID
	if v := r.URL.Query().Get("starting_after"); v != "" {
		if raw, ok := strings.CutPrefix(v, "id:"); ok {
			after, _ = uuid.Parse(raw)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	start := 0
	if after != uuid.Nil {
		for i, id := range ids {
			if id.String() > after.String() {
				start = i
				break
			}
			start = i + 1
		}
	}
	ids = ids[start:]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// writePage writes one page of items as a {"data": [...]} envelope.
// Callers hold s.mu.
func writePage[T any](w http.ResponseWriter, r *http.Request, items map[uuid.UUID]T) {
	ids := make([]uuid.UUID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	out := make([]T, 0, len(ids))
	for _, id := range page(r, ids) {
		out = append(out, items[id])
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// getFrom writes the item named by the {id} path segment, or a 404.
// Callers hold s.mu.
func getFrom[T any](w http.ResponseWriter, r *http.Request, items map[uuid.UUID]T) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, ok := items[id]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// deleteFrom removes the item named by the {id} path segment, writing
// 204 or a 404. Callers hold s.mu.
func deleteFrom[T any](w http.ResponseWriter, r *http.Request, items map[uuid.UUID]T) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, ok := items[id]; !ok {
		notFound(w)
		return
	}
	delete(items, id)
	w.WriteHeader(http.StatusNoContent)
}
