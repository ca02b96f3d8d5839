// Package confloader loads rentdesk configuration with koanf and watches
// files for changes with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (applied with LoadMap)
//  2. RENTDESK_* environment variables
//  3. Aliased environment variables (WithEnvAlias)
//  4. The YAML configuration file
//  5. Defaults
package confloader
