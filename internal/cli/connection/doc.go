// Package connection provides the HTTP adapter for the rentdesk API.
//
//   - http.go: request construction, bearer injection, 401 event
//   - decode.go: typed response decoding and structured API errors
//   - errors.go: APIError, TransportError, DecodeError
//
// The adapter has no notion of views or navigation. A 401 is published to
// subscribers registered with OnUnauthorized; the session store listens
// and invalidates itself.
package connection
