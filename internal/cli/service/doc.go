// Package service maps rentdesk resources onto REST calls.
//
// Every operation is one request through a Client. Inputs are validated by
// the caller; outputs are decoded into domain types, so a body of the wrong
// shape surfaces as a *connection.DecodeError rather than a zero value.
// Pages loads each view's independent reads in parallel.
package service
