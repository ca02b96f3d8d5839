// Package metric provides Prometheus metrics for rentdesk-cli.
//
// The client records:
//
//   - API request counts and latency histograms, labelled by route
//   - Session transitions (sign-in, sign-out, invalidation)
//
// Metrics are kept in a private registry and exposed at /metrics when the
// interactive shell runs with --metrics-addr.
package metric
