package command

import (
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/connection"
	"github.com/yndnr/rentdesk-go/internal/cli/route"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in to the rentdesk API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email (prompted if omitted)",
				EnvVars: []string{"RENTDESK_EMAIL"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted without echo if omitted)",
				EnvVars: []string{"RENTDESK_PASSWORD"},
			},
		},
		Action: action(login),
	}
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and forget the stored session",
		Action: action(logout),
	}
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in user",
		Before: guarded("/whoami"),
		Action: action(whoami),
	}
}

func login(c *cli.Context, rt *Runtime) error {
	rt.Router.Navigate(route.Login)

	email := strings.TrimSpace(c.String("email"))
	if email == "" {
		var err error
		if email, err = prompt(c, "Email"); err != nil {
			return errors.New("email required")
		}
	}
	password := c.String("password")
	if password == "" {
		var err error
		if password, err = promptPassword(c, "Password"); err != nil {
			return errors.New("password required")
		}
	}

	creds := domain.Credentials{Identifier: email, Secret: password}
	if err := domain.ValidateCredentials(creds); err != nil {
		return err
	}

	user, err := rt.Store.SignIn(c.Context, creds)
	if err != nil {
		// Rejected credentials are reported as the server words them.
		var apiErr *connection.APIError
		if errors.As(err, &apiErr) {
			return &messageError{msg: apiErr.Error(), err: err}
		}
		return err
	}

	notify(c, "Signed in as %s", user.DisplayName())

	next := rt.Router.ReturnTo()
	rt.Router.Navigate(next)
	if rt.isInteractive() {
		rt.setNext(next)
	}
	return nil
}

func logout(c *cli.Context, rt *Runtime) error {
	wasSignedIn := rt.Store.IsAuthenticated()
	if err := rt.Store.SignOut(c.Context); err != nil {
		return err
	}
	rt.Router.Navigate(route.Login)

	if wasSignedIn {
		notify(c, "Signed out")
	} else {
		notify(c, "Not signed in")
	}
	return nil
}

func whoami(c *cli.Context, rt *Runtime) error {
	user, ok := rt.Store.User()
	if !ok {
		return domain.ErrNotSignedIn
	}
	return showRecord(c, rt, user)
}
