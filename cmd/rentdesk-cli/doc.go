// Package main provides the entry point for rentdesk-cli.
//
// The CLI gives command-line access to a rentdesk API server:
//
//   - Sign in and out (the session is kept in ~/.rentdesk)
//   - Dashboard overview and monthly inflows
//   - Payments, debts and properties: list, show, create, update, delete
//   - Local configuration
//
// Usage:
//
//	rentdesk-cli login -e admin@example.com
//	rentdesk-cli -o json payments list
//	rentdesk-cli --api-url http://localhost:5000 dashboard
//	rentdesk-cli shell
package main
