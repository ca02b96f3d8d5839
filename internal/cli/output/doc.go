// Package output renders command results for rentdesk-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: table rendering with wide mode and summary cards
//   - json.go, yaml.go: machine-readable output
//   - money.go: currency and date display
//   - spinner.go: loading indicator for page loads
//
// Tables are for people; json and yaml keep the API field names so the
// output can be piped into other tools.
package output
