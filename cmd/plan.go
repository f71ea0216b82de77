package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/viewmodel"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [DESCRIPTION...]",
		Short: "Ask the AI garden planner for a plan",
		Long: "Describes your space and goals to the AI garden planner and prints the\n" +
			"plan it returns. Without arguments the description is read interactively.",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			prompt := joinArgs(args)
			if prompt == "" {
				var err error
				if prompt, err = a.prompt.Line("Describe your garden", ""); err != nil {
					return err
				}
			}
			if strings.TrimSpace(prompt) == "" {
				return nil
			}

			vm := viewmodel.NewPlanner(a.client)
			a.out.Hint("Generating your garden plan...")
			if err := vm.Submit(ctx, prompt); err != nil {
				return a.fail(err)
			}
			a.out.Plan(vm.State().Plan)
			return nil
		}),
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
