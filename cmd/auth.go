package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/session"
	"github.com/verdant-app/verdant/internal/viewmodel"
)

// readCredentials asks for whatever the flags did not provide.
func readCredentials(a *app, email string) (string, string, error) {
	if email == "" {
		var err error
		if email, err = a.prompt.Line("Email", ""); err != nil {
			return "", "", err
		}
	}
	password, err := a.prompt.Password("Password")
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func newLoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			email, password, err := readCredentials(a, email)
			if err != nil {
				return err
			}
			vm := viewmodel.NewAuth(a.client)
			if err := vm.Login(ctx, email, password); err != nil {
				return a.fail(err)
			}
			a.out.Success(vm.State().Notice)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func newSignupCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			email, password, err := readCredentials(a, email)
			if err != nil {
				return err
			}
			confirm, err := a.prompt.Password("Confirm password")
			if err != nil {
				return err
			}
			if confirm != password {
				return a.fail(viewmodel.ErrPasswordsMismatch)
			}
			vm := viewmodel.NewAuth(a.client)
			if err := vm.Signup(ctx, email, password); err != nil {
				return a.fail(err)
			}
			a.out.Success(vm.State().Notice)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(_ context.Context, a *app, _ []string) error {
			vm := viewmodel.NewAuth(a.client)
			if err := vm.Logout(); err != nil {
				return a.fail(err)
			}
			a.out.Success(vm.State().Notice)
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: withApp(func(_ context.Context, a *app, _ []string) error {
			sess, err := a.sessions.Current()
			if err != nil {
				return err
			}
			if !sess.SignedIn() {
				a.out.Println("Not signed in.")
				return nil
			}
			a.out.Printf("User ID: %s", sess.UserID)
			if exp, ok := session.TokenExpiry(sess.Token); ok {
				if sess.Expired(time.Now()) {
					a.out.Printf("Session: expired at %s", exp.Local().Format(time.DateTime))
				} else {
					a.out.Printf("Session: valid until %s", exp.Local().Format(time.DateTime))
				}
			}
			a.out.Hint(fmt.Sprintf("Backend: %s", a.client.BaseURL()))
			return nil
		}),
	}
}
