// Package uctypes holds the wire types and constants shared by the
// userstore, tokenizer, and authz clients: the ResourceID reference
// type, the enumerated string constants used in resource definitions,
// and the IDs of the policies and transformers every tenant is
// provisioned with.
package uctypes
