// Package command defines the rentdesk-cli command tree using urfave/cli/v2.
//
//   - root.go: App, global flags, runtime setup and teardown
//   - runtime.go: the client, session store, router and page loaders
//   - auth.go: login, logout, whoami
//   - payments.go, debts.go, properties.go, dashboard.go: the views
//   - config.go: local configuration
//   - shell.go: interactive shell
//
// Views are guarded: without a session they refuse to run and remember
// themselves so the shell can return to them after login.
package command
