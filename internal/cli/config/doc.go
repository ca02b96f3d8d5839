// Package config provides rentdesk-cli configuration.
//
//   - spec.go: CLIConfig and defaults (~/.rentdesk/config.yaml)
//   - loader.go: loading through confloader, saving, verification
//
// Keys: api.url, api.timeout, api.ratelimit, api.cafile, session.store,
// session.path, session.secret, output.format, log.level, log.format.
// Any key can be set with a RENTDESK_ variable (RENTDESK_API_URL);
// REACT_APP_API_BASE_URL is accepted for the API URL.
package config
