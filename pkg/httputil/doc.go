// Package httputil provides the HTTP plumbing shared by the CMS clients.
//
// # Retry
//
// [Backoff.Do] re-runs an operation with capped exponential backoff while
// it keeps failing with a [RetryableError]. [CheckStatus] classifies HTTP
// status codes: 404 becomes a not-found error, 5xx and 429 are retryable,
// every other non-2xx status fails immediately. [CheckResponse] also
// honours a Retry-After header.
//
//	err := httputil.DefaultBackoff.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// # Clients
//
// [NewClient] returns an *http.Client with the default request timeout used
// by the GraphQL page source.
package httputil
