// Package http provides the HTTP client used for manifest file
// downloads.
//
// This package handles:
//   - Connection pooling for parallel workers
//   - GET requests with an octet-stream Accept header
//   - Typed errors for common failure status codes
//
// The client performs exactly one attempt per call. Retrying lives in
// the downloader, which must roll back the byte accounting of a failed
// attempt before starting the next one.
//
// # Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	resp, err := client.Get(ctx, url)
//	if err != nil {
//	    // non-success status, missing body, or transport failure
//	}
//	defer resp.Body.Close()
package http
