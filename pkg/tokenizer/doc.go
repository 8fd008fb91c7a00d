// Package tokenizer manages data-privacy policy objects and tokens.
//
// A transformer rewrites a value (redact, hash, format-preserving
// tokenize); an access policy decides, per request, whether a caller
// may see the value behind a token. Tokens are opaque strings minted
// from a value plus a transformer and access policy, and resolve back
// to the value only when the policy allows.
//
// Usage:
//
//	t, err := transport.FromEnv()
//	if err != nil {
//		return err
//	}
//	client := tokenizer.NewClient(t)
//
//	token, err := client.CreateToken(ctx, "555-12-3456",
//		uctypes.TransformerSSN, uctypes.AccessPolicyOpen)
package tokenizer
