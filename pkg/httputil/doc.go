// Package httputil provides HTTP helpers for fetching remote images.
//
// # Overview
//
//   - [NewClient]: an *http.Client with the fetch timeout applied
//   - [CheckStatus]: maps response status codes to coded errors
//   - [Retry]: automatic retry with exponential backoff
//
// # Retry
//
// [Retry] only repeats operations whose error is wrapped in
// [RetryableError]. [CheckStatus] wraps 5xx responses that way; 404 becomes
// a NOT_FOUND error and is returned immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp.StatusCode)
//	})
//
// Caching of response bodies lives in pkg/cache; see pkg/source for the
// fetcher that combines both.
package httputil
