// Package transport implements the authenticated HTTP transport shared
// by the userstore, tokenizer, and authz clients.
//
// A Client performs JSON REST calls against a single tenant base URL.
// It acquires a bearer token from the tenant's /oidc/token endpoint
// using the OAuth2 client-credentials grant, caches it, and refreshes
// it once the token's expiry claim has passed. Failed responses are
// translated into *ucerr.Error values carrying the server message, the
// HTTP status, and the request ID.
//
// The client issues one request per call: there are no retries, no
// backoff, and no response caching. Timeouts and TLS behavior come from
// the underlying *http.Client, configurable at construction.
//
// # Usage
//
//	c, err := transport.New(tenantURL, clientID, clientSecret,
//	    transport.WithTimeout(10*time.Second))
//	if err != nil {
//	    return err
//	}
//	var col columnResponse
//	err = c.Get(ctx, "/userstore/config/columns/"+id.String(), nil, &col)
//
// A Client is safe for concurrent use; token refresh is serialized so
// concurrent callers share one acquisition.
package transport
