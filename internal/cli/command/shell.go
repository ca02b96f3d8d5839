package command

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/config"
	"github.com/yndnr/rentdesk-go/internal/cli/repl"
)

// ShellCommand starts an interactive session that keeps one runtime, and
// so one signed-in session, across commands.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (default ~/.rentdesk/history)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address (e.g., 127.0.0.1:9464)",
			},
		},
		Action: action(runShell),
	}
}

func runShell(c *cli.Context, rt *Runtime) error {
	if rt.isInteractive() {
		return &messageError{msg: "already in the shell"}
	}
	rt.setInteractive(true)
	defer rt.setInteractive(false)

	if err := rt.WatchSession(); err != nil {
		rt.Logger.Warn("cannot watch session file", "error", err)
	}
	if addr := c.String("metrics-addr"); addr != "" {
		bound, err := serveMetrics(rt, addr)
		if err != nil {
			return err
		}
		notify(c, "Serving metrics on http://%s/metrics", bound)
	}

	historyFile := c.String("history")
	if historyFile == "" {
		historyFile = filepath.Join(config.DefaultDir(), "history")
	}

	// The shell and the commands it runs read the same input, so prompts
	// inside a command see the lines after it.
	in := bufio.NewReader(c.App.Reader)

	exec := func(ctx context.Context, args []string) error {
		if err := runLine(ctx, c, rt, in, args); err != nil {
			return err
		}
		if next := rt.takeNext(); len(next.Args) > 0 {
			return runLine(ctx, c, rt, in, next.Args)
		}
		return nil
	}

	if user, ok := rt.Store.User(); ok {
		notify(c, "Signed in as %s. Type 'exit' to leave.", user.DisplayName())
	} else {
		notify(c, "Not signed in. Type 'login' to sign in, 'exit' to leave.")
	}

	r := repl.New(exec,
		repl.WithIO(in, c.App.Writer),
		repl.WithCompleter(repl.FromCommands(c.App.Commands)),
		repl.WithHistory(repl.NewHistory(historyFile)),
		repl.WithLogger(rt.Logger),
		repl.WithInterrupt(),
	)
	return r.Run(c.Context)
}

// runLine runs one shell line as a full command invocation against the
// shell's runtime.
func runLine(ctx context.Context, c *cli.Context, rt *Runtime, in *bufio.Reader, args []string) error {
	app := App()
	app.Metadata = map[string]any{runtimeKey: rt}
	app.Reader = in
	app.Writer = c.App.Writer
	app.ErrWriter = c.App.ErrWriter
	app.ExitErrHandler = func(*cli.Context, error) {}

	return app.RunContext(ctx, append([]string{app.Name}, args...))
}

// serveMetrics exposes the runtime's metrics until the runtime closes and
// returns the bound address.
func serveMetrics(rt *Runtime, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", &messageError{msg: "metrics: " + err.Error(), err: err}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", rt.Metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.Logger.Error("metrics server stopped", "error", err)
		}
	}()
	rt.OnClose(srv.Shutdown)
	return ln.Addr().String(), nil
}
