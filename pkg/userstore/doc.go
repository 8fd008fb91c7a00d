// Package userstore is the client for the userstore and authn
// subsystems: typed columns of user data, purposes, accessors
// (configurable read APIs), mutators (configurable write APIs), user
// records, and soft-deleted-data retention durations.
//
// Configuration resources follow a uniform lifecycle: Create (optionally
// adopting an identical existing resource instead of failing), Get,
// List with cursor pagination, Update, and idempotent Delete. Accessors
// and mutators are additionally executable against live user rows.
package userstore
