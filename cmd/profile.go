package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/viewmodel"
)

func newProfileCmd() *cobra.Command {
	show := withApp(func(ctx context.Context, a *app, _ []string) error {
		vm := viewmodel.NewProfile(a.client)
		if err := vm.Load(ctx); err != nil {
			return a.fail(err)
		}
		a.out.Profile(vm.State().Profile)
		return nil
	})

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your account",
		Args:  cobra.NoArgs,
		RunE:  show,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show your account details",
		Args:  cobra.NoArgs,
		RunE:  show,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "email NEW_EMAIL",
		Short: "Change your email address",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			vm := viewmodel.NewProfile(a.client)
			if err := vm.Load(ctx); err != nil {
				return a.fail(err)
			}
			if err := vm.UpdateEmail(ctx, args[0]); err != nil {
				return a.fail(err)
			}
			a.out.Success(vm.State().Notice)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			password, err := a.prompt.Password("New password")
			if err != nil {
				return err
			}
			confirm, err := a.prompt.Password("Confirm new password")
			if err != nil {
				return err
			}
			vm := viewmodel.NewProfile(a.client)
			if err := vm.UpdatePassword(ctx, password, confirm); err != nil {
				return a.fail(err)
			}
			a.out.Success(vm.State().Notice)
			return nil
		}),
	})
	return cmd
}
