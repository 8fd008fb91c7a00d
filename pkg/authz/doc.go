// Package authz manages the authorization graph: typed objects, typed
// attribute-carrying edges between them, and organizations.
//
// The graph is queried with CheckAttribute, which reports whether a
// source object holds a named attribute on a target object, directly or
// through edges whose attributes propagate or inherit.
//
// Usage:
//
//	t, err := transport.FromEnv()
//	if err != nil {
//		return err
//	}
//	client := authz.NewClient(t)
//
//	ok, err := client.CheckAttribute(ctx, aliceID, reportID, "view")
package authz
