package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/viewmodel"
)

func newPlantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plants",
		Short: "Look up plant care guides",
	}
	cmd.AddCommand(newPlantsSearchCmd())
	cmd.AddCommand(newPlantsTypeCmd())
	return cmd
}

func newPlantsSearchCmd() *cobra.Command {
	var plantType string
	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Show the care guide for a plant",
		Long: "Searches the selected plant type first and falls back to the other type\n" +
			"when the plant is not found there.",
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			vm := viewmodel.NewPlantDetails(a.client, a.cfg.DefaultPlantType)
			if err := vm.Search(ctx, joinArgs(args), plantType); err != nil {
				return a.fail(err)
			}
			a.out.Plant(vm.State())
			return nil
		}),
	}
	cmd.Flags().StringVarP(&plantType, "type", "t", "", "plant type: indoor or other")
	return cmd
}

func newPlantsTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "type [indoor|other]",
		Short:     "Show or set the plant type searched first",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"indoor", "other"},
		RunE: withApp(func(_ context.Context, a *app, args []string) error {
			vm := viewmodel.NewPlantDetails(a.client, a.cfg.DefaultPlantType)
			if len(args) == 0 {
				a.out.Println(vm.SelectedType())
				return nil
			}
			if err := vm.SelectType(args[0]); err != nil {
				return a.fail(err)
			}
			a.out.Success(fmt.Sprintf("Searching %s plants first.", args[0]))
			return nil
		}),
	}
}
