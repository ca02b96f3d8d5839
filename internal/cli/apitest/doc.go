// Package apitest runs an in-memory rentdesk REST API for tests.
//
// The server speaks the same routes and JSON shapes as the real backend:
// bearer-token auth on every /api route except sign-in, CRUD on payments,
// debts and properties, and the aggregate endpoints. Tests can revoke all
// tokens to provoke 401s, or make a route answer with a malformed body.
package apitest
