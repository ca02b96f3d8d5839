package route

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/session"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// ErrPending is returned while the session state is still being read.
var ErrPending = errors.New("route: session not loaded yet")

// RedirectError reports that a protected view was refused and the user
// was sent to To.
type RedirectError struct {
	To   Location
	From Location
}

// Error implements the error interface.
func (e *RedirectError) Error() string {
	return "sign in required: run 'rentdesk-cli login'"
}

// Is matches domain.ErrNotSignedIn.
func (e *RedirectError) Is(target error) bool {
	return domain.IsDomainError(target, domain.ErrNotSignedIn.Code)
}

// StateSource reports the session state.
type StateSource interface {
	State() session.State
}

// Guard admits protected views only for an authenticated session.
type Guard struct {
	store  StateSource
	router *Router
}

// NewGuard returns a guard over store that records views in router.
func NewGuard(store StateSource, router *Router) *Guard {
	return &Guard{store: store, router: router}
}

// Check decides whether loc may render.
func (g *Guard) Check(loc Location) error {
	switch g.store.State() {
	case session.StateAuthenticated:
		g.router.Navigate(loc)
		return nil
	case session.StateAnonymous:
		g.router.Redirect(Login, loc)
		return &RedirectError{To: Login, From: loc}
	default:
		return ErrPending
	}
}

// Before returns a cli.BeforeFunc that checks the command's view before
// its action runs.
func (g *Guard) Before(path string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		return g.Check(Location{Path: path, Args: commandWords(c)})
	}
}

// commandWords rebuilds the shell words for the running command: the
// command names from the root down plus positional arguments.
func commandWords(c *cli.Context) []string {
	var names []string
	for _, ctx := range c.Lineage() {
		if ctx.Command == nil || ctx.Command.Name == "" {
			continue
		}
		if ctx.App != nil && ctx.Command.Name == ctx.App.Name {
			continue
		}
		names = append([]string{ctx.Command.Name}, names...)
	}
	return append(names, c.Args().Slice()...)
}
