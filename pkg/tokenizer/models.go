package tokenizer

import (
	"time"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/pkg/uctypes"
)

// AccessPolicyTemplate is a versioned javascript function reusable
// across access policies. The function receives the request context and
// the template parameters and returns whether access is allowed.
type AccessPolicyTemplate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Function    string    `json:"function"`
	Version     int       `json:"version"`
}

// AccessPolicyComponent is one clause of a composite access policy:
// either a reference to another policy or a template plus the
// parameters to instantiate it with. Exactly one of Policy and Template
// is set.
type AccessPolicyComponent struct {
	Policy             *uctypes.ResourceID `json:"policy,omitempty"`
	Template           *uctypes.ResourceID `json:"template,omitempty"`
	TemplateParameters string              `json:"template_parameters,omitempty"`
}

// AccessPolicy combines components under composite_and or composite_or
// semantics. Policies are versioned; updates bump Version.
type AccessPolicy struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	PolicyType  uctypes.PolicyType      `json:"policy_type"`
	Version     int                     `json:"version"`
	Components  []AccessPolicyComponent `json:"components"`
}

// Transformer is a named function that rewrites a value on the way out
// of the user store or into a token. Transformers are immutable once
// created.
type Transformer struct {
	ID                 uuid.UUID             `json:"id"`
	Name               string                `json:"name"`
	InputType          uctypes.DataType      `json:"input_type"`
	OutputType         uctypes.DataType      `json:"output_type"`
	ReuseExistingToken bool                  `json:"reuse_existing_token"`
	TransformType      uctypes.TransformType `json:"transform_type"`
	Function           string                `json:"function"`
	Parameters         string                `json:"parameters"`
}

// InspectTokenResponse describes an existing token without resolving
// it.
type InspectTokenResponse struct {
	ID           uuid.UUID    `json:"id"`
	Token        string       `json:"token"`
	Created      time.Time    `json:"created"`
	Updated      time.Time    `json:"updated"`
	Transformer  Transformer  `json:"transformer"`
	AccessPolicy AccessPolicy `json:"access_policy"`
}
