package route

import (
	"strings"
	"sync"

	"github.com/yndnr/rentdesk-go/internal/cli/session"
	"github.com/yndnr/rentdesk-go/internal/telemetry/logger"
)

// Well-known view paths.
const (
	LoginPath   = "/login"
	DefaultPath = "/dashboard"
)

// Location names a view.
type Location struct {
	Path string
	Args []string // shell words that render the view, if known
}

// Login is the sign-in view.
var Login = Location{Path: LoginPath, Args: []string{"login"}}

// Default is the view shown after sign-in when nothing else was asked for.
var Default = Location{Path: DefaultPath, Args: []string{"dashboard"}}

// String returns the path, followed by the shell words in brackets.
func (l Location) String() string {
	if len(l.Args) == 0 {
		return l.Path
	}
	return l.Path + " [" + strings.Join(l.Args, " ") + "]"
}

// IsZero reports whether l names no view.
func (l Location) IsZero() bool {
	return l.Path == ""
}

// Router tracks the current view and the view to return to after sign-in.
type Router struct {
	mu      sync.Mutex
	current Location
	from    *Location
	logger  logger.Logger
}

// NewRouter returns a router with no current view.
func NewRouter(l logger.Logger) *Router {
	if l == nil {
		l = logger.Default()
	}
	return &Router{logger: l}
}

// Current returns the current view.
func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate makes loc the current view.
func (r *Router) Navigate(loc Location) {
	r.mu.Lock()
	r.current = loc
	r.mu.Unlock()
	r.logger.Debug("navigate", "to", loc.Path)
}

// Redirect moves to to and remembers from as the view to return to.
func (r *Router) Redirect(to, from Location) {
	r.mu.Lock()
	r.current = to
	if !from.IsZero() && from.Path != LoginPath {
		f := from
		r.from = &f
	}
	r.mu.Unlock()
	r.logger.Debug("redirect", "to", to.Path, "from", from.Path)
}

// ReturnTo returns the remembered view, or Default, and forgets it.
func (r *Router) ReturnTo() Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.from == nil {
		return Default
	}
	loc := *r.from
	r.from = nil
	return loc
}

// Follow subscribes the router to store events. An invalidated session
// sends the user to the sign-in view unless they are already there.
func (r *Router) Follow(store *session.Store) (unfollow func()) {
	return store.Subscribe(func(ev session.Event) {
		if ev != session.EventInvalidated {
			return
		}
		if r.Current().Path == LoginPath {
			return
		}
		r.Redirect(Login, r.Current())
	})
}
