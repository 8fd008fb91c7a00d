package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/userclouds/sdk-go/pkg/tokenizer"
	"github.com/userclouds/sdk-go/pkg/uctypes"
	"github.com/userclouds/sdk-go/pkg/userstore"
)

const sampleEmail = "me@example.org"

// phoneTransformerFunction masks phone numbers for the support team and
// passes them through unchanged for the security team.
const phoneTransformerFunction = `
function transform(data, params) {
    if (params.team == "security_team") {
        return data;
    } else if (params.team == "support_team") {
        phone = /^(\d{3})-(\d{3})-(\d{4})$/.exec(data);
        if (phone) {
            return "XXX-XXX-"+phone[3];
        } else {
            return "<invalid phone number>";
        }
    }
    return "";
}`

// teamViews collects what each team's accessor returned for the user.
type teamViews struct {
	UserID    uuid.UUID `json:"user_id" yaml:"user_id"`
	Support   []string  `json:"support" yaml:"support"`
	Security  []string  `json:"security" yaml:"security"`
	Marketing []string  `json:"marketing" yaml:"marketing"`
}

var userstoreCmd = &cobra.Command{
	Use:   "userstore",
	Short: "Run the PII storage and access scenario",
	Long: `Provisions phone and home-address columns with purpose-scoped
accessors and a mutator, stores a user's PII through the mutator, and
reads it back as the support, security, and marketing teams to show the
per-team transformation and policy enforcement.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := userstore.NewClient(tenant)
		policyClient := tokenizer.NewClient(tenant)

		support, security, marketing, mutator, err := setupUserstore(ctx, client, policyClient)
		if err != nil {
			return err
		}
		views, err := runUserstoreScenario(ctx, client, support, security, marketing, mutator)
		if err != nil {
			return err
		}

		if err := formatOutput(views); err != nil {
			return err
		}
		if outputFormat == "table" {
			fmt.Printf("%-12s %v\n", "support:", views.Support)
			fmt.Printf("%-12s %v\n", "security:", views.Security)
			fmt.Printf("%-12s %v\n", "marketing:", views.Marketing)
			fmt.Println(okFmt("userstore scenario passed"))
		}
		return nil
	},
}

func setupUserstore(ctx context.Context, client *userstore.Client, policyClient *tokenizer.Client) (support, security, marketing *userstore.Accessor, mutator *userstore.Mutator, err error) {
	columns := []userstore.Column{
		{Name: "phone_number", Type: uctypes.DataTypeString, IndexType: uctypes.ColumnIndexTypeIndexed},
		{Name: "home_addresses", Type: uctypes.DataTypeAddress, IsArray: true, IndexType: uctypes.ColumnIndexTypeNone},
	}
	for _, col := range columns {
		if _, err := client.CreateColumn(ctx, col, true); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to create column %s: %w", col.Name, err)
		}
	}

	purposes := []userstore.Purpose{
		{Name: "security", Description: "Allows access to the data in the columns for security purposes"},
		{Name: "support", Description: "Allows access to the data in the columns for support purposes"},
		{Name: "marketing", Description: "Allows access to the data in the columns for marketing purposes"},
	}
	for _, p := range purposes {
		if _, err := client.CreatePurpose(ctx, p, true); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to create purpose %s: %w", p.Name, err)
		}
	}

	// The access policy admits only the security and support teams; the
	// caller's team arrives in the accessor's context.
	if _, err := policyClient.CreateAccessPolicyTemplate(ctx, tokenizer.AccessPolicyTemplate{
		Name: "PIIAccessPolicyTemplate",
		Function: `function policy(context, params) {
            return params.teams.includes(context.client.team);
		}`,
	}, true); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create access policy template: %w", err)
	}

	templateRef := uctypes.ByName("PIIAccessPolicyTemplate")
	piiPolicy, err := policyClient.CreateAccessPolicy(ctx, tokenizer.AccessPolicy{
		Name:       "PIIAccessForSecurityandSupport",
		PolicyType: uctypes.PolicyTypeCompositeAnd,
		Components: []tokenizer.AccessPolicyComponent{
			{Template: &templateRef, TemplateParameters: `{"teams": ["security_team", "support_team"]}`},
		},
	}, true)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create access policy: %w", err)
	}

	supportTransformer, err := policyClient.CreateTransformer(ctx, tokenizer.Transformer{
		Name:          "PIITransformerForSupport",
		InputType:     uctypes.DataTypeString,
		TransformType: uctypes.TransformTypeTransform,
		Function:      phoneTransformerFunction,
		Parameters:    `{"team": "support_team"}`,
	}, true)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create support transformer: %w", err)
	}
	securityTransformer, err := policyClient.CreateTransformer(ctx, tokenizer.Transformer{
		Name:          "PIITransformerForSecurity",
		InputType:     uctypes.DataTypeString,
		TransformType: uctypes.TransformTypeTransform,
		Function:      phoneTransformerFunction,
		Parameters:    `{"team": "security_team"}`,
	}, true)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create security transformer: %w", err)
	}

	passThroughColumns := func(phoneTransformer uctypes.ResourceID) []userstore.ColumnOutputConfig {
		return []userstore.ColumnOutputConfig{
			{Column: uctypes.ByName("phone_number"), Transformer: phoneTransformer},
			{Column: uctypes.ByName("home_addresses"), Transformer: uctypes.TransformerPassThrough},
			{Column: uctypes.ByName("created"), Transformer: uctypes.TransformerPassThrough},
			{Column: uctypes.ByName("id"), Transformer: uctypes.TransformerPassThrough},
		}
	}

	support, err = client.CreateAccessor(ctx, userstore.Accessor{
		Name:           "PIIAccessor-SupportTeam",
		Description:    "Accessor for support team",
		Columns:        passThroughColumns(uctypes.ByID(supportTransformer.ID)),
		AccessPolicy:   uctypes.ByID(piiPolicy.ID),
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
		Purposes:       []uctypes.ResourceID{uctypes.ByName("support")},
	}, true)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create support accessor: %w", err)
	}

	security, err = client.CreateAccessor(ctx, userstore.Accessor{
		Name:         "PIIAccessor-SecurityTeam",
		Description:  "Accessor for security team",
		Columns:      passThroughColumns(uctypes.ByID(securityTransformer.ID)),
		AccessPolicy: uctypes.ByID(piiPolicy.ID),
		SelectorConfig: userstore.UserSelectorConfig{
			WhereClause: "{home_addresses}->>'street_address_line_1' LIKE (?) AND {phone_number} = (?)",
		},
		Purposes: []uctypes.ResourceID{uctypes.ByName("security")},
	}, true)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create security accessor: %w", err)
	}

	marketing, err = client.CreateAccessor(ctx, userstore.Accessor{
		Name:           "PIIAccessor-MarketingTeam",
		Description:    "Accessor for marketing team",
		Columns:        passThroughColumns(uctypes.TransformerPassThrough),
		AccessPolicy:   uctypes.AccessPolicyOpen,
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
		Purposes:       []uctypes.ResourceID{uctypes.ByName("marketing")},
	}, true)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create marketing accessor: %w", err)
	}

	mutator, err = client.CreateMutator(ctx, userstore.Mutator{
		Name:        "PhoneAndAddressMutator",
		Description: "Mutator for updating phone number and home address",
		Columns: []userstore.ColumnInputConfig{
			{Column: uctypes.ByName("phone_number"), Validator: uctypes.ValidatorOpen},
			{Column: uctypes.ByName("home_addresses"), Validator: uctypes.ValidatorOpen},
		},
		AccessPolicy:   uctypes.AccessPolicyOpen,
		SelectorConfig: userstore.UserSelectorConfig{WhereClause: "{id} = ?"},
	}, true)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create mutator: %w", err)
	}
	return support, security, marketing, mutator, nil
}

func runUserstoreScenario(ctx context.Context, client *userstore.Client, support, security, marketing *userstore.Accessor, mutator *userstore.Mutator) (views *teamViews, err error) {
	// Remove leftovers from previous runs so the accessors see exactly
	// one matching user.
	stale, err := client.ListUsers(ctx, 0, uuid.Nil, sampleEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range stale {
		if _, err := client.DeleteUser(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale user %s: %w", u.ID, err)
		}
	}

	var opts []userstore.UserOption
	if userRegion != "" {
		opts = append(opts, userstore.WithRegion(userRegion))
	}
	uid, err := client.CreateUser(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	step("created user %s", uid)
	defer func() {
		if _, derr := client.DeleteUser(ctx, uid); derr != nil && err == nil {
			err = fmt.Errorf("failed to delete user: %w", derr)
		}
	}()

	grants := []uctypes.ResourceID{
		uctypes.ByName("security"),
		uctypes.ByName("support"),
		uctypes.ByName("operational"),
	}
	if _, err := client.ExecuteMutator(ctx, mutator.ID, nil, []any{uid}, map[string]userstore.ValueAndPurposes{
		"phone_number": {
			Value:            "123-456-7890",
			PurposeAdditions: grants,
		},
		"home_addresses": {
			Value: []userstore.Address{
				{Country: "usa", StreetAddressLine1: "742 Evergreen Terrace", Locality: "Springfield"},
				{Country: "usa", StreetAddressLine1: "123 Main St", Locality: "Pleasantville"},
			},
			PurposeAdditions: grants,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to execute mutator: %w", err)
	}

	// Support sees a masked phone number, security sees everything, and
	// marketing is turned away by the access policy.
	supportView, err := client.ExecuteAccessor(ctx, support.ID, map[string]any{"team": "support_team"}, []any{uid})
	if err != nil {
		return nil, fmt.Errorf("failed to execute support accessor: %w", err)
	}
	securityView, err := client.ExecuteAccessor(ctx, security.ID, map[string]any{"team": "security_team"}, []any{"%Evergreen%", "123-456-7890"})
	if err != nil {
		return nil, fmt.Errorf("failed to execute security accessor: %w", err)
	}
	marketingView, err := client.ExecuteAccessor(ctx, marketing.ID, map[string]any{"team": "marketing_team"}, []any{uid})
	if err != nil {
		return nil, fmt.Errorf("failed to execute marketing accessor: %w", err)
	}
	if len(marketingView) != 0 {
		return nil, fmt.Errorf("marketing accessor returned %v, expected nothing", marketingView)
	}

	return &teamViews{
		UserID:    uid,
		Support:   supportView,
		Security:  securityView,
		Marketing: marketingView,
	}, nil
}

func init() {
	rootCmd.AddCommand(userstoreCmd)
}
