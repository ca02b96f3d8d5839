// Package domain defines the records exchanged with the rentdesk API.
//
// The API server owns every record; the client only keeps copies for
// display. This package contains:
//
//   - User and Session: the signed-in identity and its credential
//   - Payment, Debt, Property, Unit: resource records and their aggregates
//   - Validation rules applied before a record is submitted
//   - MonthlyTotals: payment aggregation by calendar month
//   - Errors: structured domain errors
package domain
