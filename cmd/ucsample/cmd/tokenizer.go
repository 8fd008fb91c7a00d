package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/userclouds/sdk-go/pkg/tokenizer"
	"github.com/userclouds/sdk-go/pkg/ucerr"
	"github.com/userclouds/sdk-go/pkg/uctypes"
)

// tokenRoundTrip summarizes the token lifecycle portion of the run.
type tokenRoundTrip struct {
	Token        string `json:"token" yaml:"token"`
	ResolvedData string `json:"resolved_data" yaml:"resolved_data"`
	LookupFound  bool   `json:"lookup_found" yaml:"lookup_found"`
	Deleted      bool   `json:"deleted" yaml:"deleted"`
}

var tokenizerCmd = &cobra.Command{
	Use:   "tokenizer",
	Short: "Run the tokenizer policy and token scenarios",
	Long: `Exercises access policy templates, composite access policies, and
transformers through their full lifecycle, then tokenizes a secret and
resolves, looks up, inspects, and deletes the resulting token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := tokenizer.NewClient(tenant)

		if err := runAccessPolicyLifecycle(ctx, client); err != nil {
			return err
		}
		if err := runTransformerLifecycle(ctx, client); err != nil {
			return err
		}
		summary, err := runTokenRoundTrip(ctx, client)
		if err != nil {
			return err
		}
		if err := runBadTokenResolution(ctx, client); err != nil {
			return err
		}

		if err := formatOutput(summary); err != nil {
			return err
		}
		if outputFormat == "table" {
			fmt.Printf("token:    %s\n", summary.Token)
			fmt.Printf("resolved: %s\n", summary.ResolvedData)
			fmt.Println(okFmt("tokenizer scenario passed"))
		}
		return nil
	},
}

func runAccessPolicyLifecycle(ctx context.Context, client *tokenizer.Client) error {
	template, err := client.CreateAccessPolicyTemplate(ctx, tokenizer.AccessPolicyTemplate{
		Name:     "test_template",
		Function: "function policy(x, y) { return false; };",
	}, true)
	if err != nil {
		return fmt.Errorf("failed to create access policy template: %w", err)
	}
	step("created template %s v%d", template.ID, template.Version)

	templateRef := uctypes.ByName("test_template")
	policy, err := client.CreateAccessPolicy(ctx, tokenizer.AccessPolicy{
		Name:       "test_access_policy",
		PolicyType: uctypes.PolicyTypeCompositeAnd,
		Components: []tokenizer.AccessPolicyComponent{
			{Template: &templateRef, TemplateParameters: "{}"},
		},
	}, true)
	if err != nil {
		return fmt.Errorf("failed to create access policy: %w", err)
	}
	step("created policy %s v%d", policy.ID, policy.Version)

	policies, err := client.ListAccessPolicies(ctx, 0, uuid.Nil)
	if err != nil {
		return fmt.Errorf("failed to list access policies: %w", err)
	}
	openID, _ := uctypes.AccessPolicyOpen.ID()
	var foundOpen, foundNew bool
	for _, p := range policies {
		foundOpen = foundOpen || p.ID == openID
		foundNew = foundNew || p.ID == policy.ID
	}
	if !foundOpen {
		step("note: AccessPolicyOpen missing from policy list")
	}
	if !foundNew {
		return fmt.Errorf("new access policy %s missing from list", policy.ID)
	}

	policy.Components[0].TemplateParameters = `{"foo": "bar"}`
	updated, err := client.UpdateAccessPolicy(ctx, *policy)
	if err != nil {
		return fmt.Errorf("failed to update access policy: %w", err)
	}
	if updated.Version != policy.Version+1 {
		return fmt.Errorf("update changed version from %d to %d, expected +1", policy.Version, updated.Version)
	}

	// Deleting a specific version leaves earlier versions in place, so
	// both deletes are needed for a clean re-run.
	for _, v := range []int{updated.Version, policy.Version} {
		if _, err := client.DeleteAccessPolicy(ctx, updated.ID, v); err != nil {
			return fmt.Errorf("failed to delete access policy v%d: %w", v, err)
		}
	}
	if _, err := client.DeleteAccessPolicyTemplate(ctx, template.ID, template.Version); err != nil {
		return fmt.Errorf("failed to delete access policy template: %w", err)
	}
	return nil
}

func runTransformerLifecycle(ctx context.Context, client *tokenizer.Client) error {
	created, err := client.CreateTransformer(ctx, tokenizer.Transformer{
		Name:          "test_transformer",
		InputType:     uctypes.DataTypeString,
		TransformType: uctypes.TransformTypeTransform,
		Function:      "function transform(x, y) { return 'token' };",
		Parameters:    "{}",
	}, true)
	if err != nil {
		return fmt.Errorf("failed to create transformer: %w", err)
	}
	step("created transformer %s", created.ID)

	transformers, err := client.ListTransformers(ctx, 0, uuid.Nil)
	if err != nil {
		return fmt.Errorf("failed to list transformers: %w", err)
	}
	var found bool
	for _, tf := range transformers {
		found = found || tf.ID == created.ID
	}
	if !found {
		return fmt.Errorf("new transformer %s missing from list", created.ID)
	}

	if _, err := client.DeleteTransformer(ctx, created.ID); err != nil {
		return fmt.Errorf("failed to delete transformer: %w", err)
	}
	return nil
}

func runTokenRoundTrip(ctx context.Context, client *tokenizer.Client) (*tokenRoundTrip, error) {
	const originalData = "something very secret"

	token, err := client.CreateToken(ctx, originalData, uctypes.TransformerUUID, uctypes.AccessPolicyOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	step("token: %s", token)

	resolved, err := client.ResolveTokens(ctx, []string{token}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	if len(resolved) != 1 || resolved[0].Data != originalData {
		return nil, fmt.Errorf("token resolved to %v, expected %q", resolved, originalData)
	}

	lookedUp, err := client.LookupToken(ctx, originalData, uctypes.TransformerUUID, uctypes.AccessPolicyOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup token: %w", err)
	}
	var found bool
	for _, t := range lookedUp {
		found = found || t == token
	}
	if !found {
		return nil, fmt.Errorf("lookup tokens %v do not contain created token %s", lookedUp, token)
	}

	inspected, err := client.InspectToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect token: %w", err)
	}
	if inspected.Token != token {
		return nil, fmt.Errorf("inspected token %s does not match created token %s", inspected.Token, token)
	}
	transformerID, _ := uctypes.TransformerUUID.ID()
	if inspected.Transformer.ID != transformerID {
		return nil, fmt.Errorf("inspected transformer %s does not match %s", inspected.Transformer.ID, transformerID)
	}
	openID, _ := uctypes.AccessPolicyOpen.ID()
	if inspected.AccessPolicy.ID != openID {
		return nil, fmt.Errorf("inspected access policy %s does not match %s", inspected.AccessPolicy.ID, openID)
	}

	deleted, err := client.DeleteToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to delete token: %w", err)
	}

	return &tokenRoundTrip{
		Token:        token,
		ResolvedData: resolved[0].Data,
		LookupFound:  found,
		Deleted:      deleted,
	}, nil
}

// runBadTokenResolution confirms that resolving garbage surfaces a
// not-found error instead of data.
func runBadTokenResolution(ctx context.Context, client *tokenizer.Client) error {
	resolved, err := client.ResolveTokens(ctx, []string{"not a token"}, nil, nil)
	if err != nil {
		if ucerr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("resolving a bad token failed unexpectedly: %w", err)
	}
	for _, r := range resolved {
		if r.Data != "" {
			return fmt.Errorf("resolving a bad token returned data: %v", resolved)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tokenizerCmd)
}
