// Package tlsroots builds the TLS client configuration used to reach the
// rentdesk API.
//
// The system certificate pool is extended with an optional CA bundle
// (api.cafile) and an optional client certificate for deployments that
// sit behind mutual TLS.
package tlsroots
