package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/config"
	"github.com/yndnr/rentdesk-go/internal/cli/connection"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
	"github.com/yndnr/rentdesk-go/internal/infra/buildinfo"
	"github.com/yndnr/rentdesk-go/internal/telemetry/logger"
)

// offline commands run without an API client or session.
var offline = map[string]bool{
	"config":  true,
	"version": true,
	"help":    true,
	"h":       true,
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "rentdesk-cli",
		Usage:   "Payments, debts and properties from the rentdesk API",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			DashboardCommand(),
			PaymentsCommand(),
			DebtsCommand(),
			PropertiesCommand(),
			ConfigCommand(),
			ShellCommand(),
			VersionCommand(),
		},
		Metadata: map[string]any{},
		Before:   setupRuntime,
		After:    closeRuntime,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Aliases: []string{"s"},
			Usage:   "rentdesk API base URL (e.g., http://localhost:5000)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.rentdesk/config.yaml)",
		},
		&cli.StringFlag{
			Name:  "session-store",
			Usage: "Where the session is kept: file, badger, memory",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log API requests to stderr",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	APIURL       string
	ConfigFile   string
	SessionStore string

	// Output format
	Output string // table, json, yaml
	Wide   bool

	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		APIURL:       c.String("api-url"),
		ConfigFile:   c.String("config"),
		SessionStore: c.String("session-store"),
		Output:       c.String("output"),
		Wide:         c.Bool("wide"),
		Verbose:      c.Bool("verbose"),
	}
}

// overrides returns the flags that were set as dotted config keys.
func (f *GlobalFlags) overrides() map[string]any {
	m := make(map[string]any)
	if f.APIURL != "" {
		m["api.url"] = f.APIURL
	}
	if f.SessionStore != "" {
		m["session.store"] = f.SessionStore
	}
	if f.Output != "" {
		m["output.format"] = f.Output
	}
	if f.Verbose {
		m["log.level"] = "debug"
	}
	return m
}

// loadConfig loads configuration with the global flags applied.
func loadConfig(c *cli.Context) (*config.CLIConfig, error) {
	flags := ParseGlobalFlags(c)
	return config.Load(flags.ConfigFile, flags.overrides())
}

// setupRuntime builds the Runtime once per process. A runtime already in
// the metadata (the shell's) is reused.
func setupRuntime(c *cli.Context) error {
	if _, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return nil
	}
	if offline[c.Args().First()] {
		return nil
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	rt, err := NewRuntime(c.Context, cfg, log)
	if err != nil {
		return err
	}
	c.App.Metadata[runtimeKey] = rt
	return nil
}

// closeRuntime releases the runtime unless the shell still owns it.
func closeRuntime(c *cli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok || rt.isInteractive() {
		return nil
	}
	delete(c.App.Metadata, runtimeKey)
	return rt.Close()
}

// runtimeFrom returns the process runtime.
func runtimeFrom(c *cli.Context) (*Runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil, errors.New("not connected: runtime was not initialized")
	}
	return rt, nil
}

// action adapts fn to a cli.ActionFunc that receives the runtime and
// reports errors the way users expect to read them.
func action(fn func(c *cli.Context, rt *Runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := runtimeFrom(c)
		if err != nil {
			return err
		}
		if c.Command != nil {
			c.Context = logger.WithView(c.Context, c.Command.FullName())
		}
		return userError(rt, fn(c, rt))
	}
}

// guarded returns a Before hook admitting the view at path only with a
// session.
func guarded(path string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		rt, err := runtimeFrom(c)
		if err != nil {
			return err
		}
		return rt.Guard.Before(path)(c)
	}
}

// messageError replaces an error's text while keeping it inspectable.
type messageError struct {
	msg string
	err error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.err }

// userError maps client errors to the messages printed to the user. API
// errors keep the server's message.
func userError(rt *Runtime, err error) error {
	if err == nil {
		return nil
	}
	var me *messageError
	if errors.As(err, &me) {
		return err
	}

	var (
		transport *connection.TransportError
		invalid   *domain.ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		lines := []string{domain.ErrValidation.Message + ":"}
		for _, f := range invalid.Fields {
			lines = append(lines, "  "+f.Field+": "+f.Message)
		}
		return &messageError{msg: strings.Join(lines, "\n"), err: err}
	case errors.Is(err, connection.ErrUnauthorized):
		return &messageError{msg: domain.ErrSessionExpired.Message, err: err}
	case errors.Is(err, domain.ErrBadResponse):
		return &messageError{msg: "unexpected response from server: " + err.Error(), err: err}
	case errors.As(err, &transport):
		// Keep any context such as "failed to load payments: ".
		reach := fmt.Sprintf("cannot reach %s: %v", rt.Client.BaseURL(), transport.Cause)
		return &messageError{msg: strings.Replace(err.Error(), transport.Error(), reach, 1), err: err}
	}
	return err
}

// notify prints a success notification on stderr.
func notify(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(c.App.ErrWriter, format+"\n", args...)
}

// stdout returns the command's output writer.
func stdout(c *cli.Context) io.Writer {
	return c.App.Writer
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
