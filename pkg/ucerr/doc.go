// Package ucerr defines the structured errors returned by the UserClouds
// SDK.
//
// Every failed API call surfaces as an *Error carrying the server's
// error message, the HTTP status code, and the request ID from the
// X-Request-Id response header so failures can be correlated in support
// tickets. Conflict responses (HTTP 409) additionally carry the parsed
// conflict payload, which callers use to adopt the ID of an identical
// pre-existing resource.
//
// # Usage
//
//	col, err := client.CreateColumn(ctx, col, false)
//	if ucerr.IsConflict(err) {
//	    // resource already exists
//	}
package ucerr
