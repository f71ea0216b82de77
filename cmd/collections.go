package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/ui"
	"github.com/verdant-app/verdant/internal/viewmodel"
)

func newCollectionsCmd() *cobra.Command {
	list := withApp(func(ctx context.Context, a *app, _ []string) error {
		if !viewmodel.NewRequireAuth(a.client).Check() {
			return &shownError{err: api.ErrSignInRequired}
		}
		vm := viewmodel.NewCollections(a.client)
		if err := vm.Refresh(ctx); err != nil {
			return a.fail(err)
		}
		a.out.Collections(vm.State())
		return nil
	})

	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "List and manage your plant collections",
		Args:    cobra.NoArgs,
		RunE:    list,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your collections and the plants in them",
		Args:  cobra.NoArgs,
		RunE:  list,
	})
	cmd.AddCommand(newCollectionsCreateCmd())
	cmd.AddCommand(newCollectionsRenameCmd())
	cmd.AddCommand(newCollectionsDeleteCmd())
	cmd.AddCommand(newCollectionsRemoveCmd())
	cmd.AddCommand(newCollectionsAddCmd())
	return cmd
}

// mutation runs one Collections action and prints its outcome.
func mutation(fn func(ctx context.Context, vm *viewmodel.Collections, args []string) error) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, a *app, args []string) error {
		vm := viewmodel.NewCollections(a.client)
		if err := fn(ctx, vm, args); err != nil {
			return a.fail(err)
		}
		a.out.Success(vm.State().Notice)
		return nil
	})
}

func newCollectionsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty collection",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(func(ctx context.Context, vm *viewmodel.Collections, args []string) error {
			return vm.Create(ctx, args[0])
		}),
	}
}

func newCollectionsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(2),
		RunE: mutation(func(ctx context.Context, vm *viewmodel.Collections, args []string) error {
			return vm.Rename(ctx, args[0], args[1])
		}),
	}
}

func newCollectionsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a collection and every plant in it",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			name := args[0]
			if !yes && !a.prompt.Confirm(fmt.Sprintf("Delete the entire collection %q? All plants in it will be lost.", name)) {
				a.out.Println("Aborted.")
				return nil
			}
			vm := viewmodel.NewCollections(a.client)
			if err := vm.Delete(ctx, name); err != nil {
				return a.fail(err)
			}
			a.out.Success(vm.State().Notice)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newCollectionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ENTRY_ID",
		Short: "Remove one saved plant (ids are shown by \"collections list\")",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(func(ctx context.Context, vm *viewmodel.Collections, args []string) error {
			return vm.RemovePlant(ctx, api.ID(args[0]))
		}),
	}
}

func newCollectionsAddCmd() *cobra.Command {
	var (
		to        string
		plantType string
	)
	cmd := &cobra.Command{
		Use:   "add PLANT [--to NAME]",
		Short: "Look up a plant and save it into a collection",
		Long: "Looks up PLANT and saves it into the collection named by --to. Without\n" +
			"--to the existing collections are listed and you are asked to choose one.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			details := viewmodel.NewPlantDetails(a.client, a.cfg.DefaultPlantType)
			err := details.Search(ctx, args[0], plantType)
			if err != nil {
				return a.fail(err)
			}
			found := details.State()
			if found.Plant == nil {
				return a.fail(&viewmodel.PlantNotFoundError{Name: args[0]})
			}

			target := to
			if target == "" {
				if target, err = chooseCollection(ctx, viewmodel.NewCollectionPicker(a.client), a.out, a.prompt); err != nil {
					return a.fail(err)
				}
			}

			vm := viewmodel.NewCollections(a.client)
			if err := vm.AddPlant(ctx, *found.Plant, target, found.ActualType); err != nil {
				return a.fail(err)
			}
			a.out.Success(vm.State().Notice)
			return nil
		}),
	}
	cmd.Flags().StringVar(&to, "to", "", "collection to save into (created when missing); asked for when omitted")
	cmd.Flags().StringVarP(&plantType, "type", "t", "", "plant type: indoor or other")
	return cmd
}

// chooseCollection lists the user's collections and asks which one to use.
// A name that does not exist yet is accepted; AddPlant creates it.
func chooseCollection(ctx context.Context, picker *viewmodel.CollectionPicker, out *ui.Printer, prompt *ui.Prompter) (string, error) {
	if err := picker.Refresh(ctx); err != nil {
		return "", err
	}
	names := picker.State().Names
	out.Title("Your collections")
	out.CollectionNames(names)

	def := ""
	if len(names) > 0 {
		def = names[0]
	}
	name, err := prompt.Line("Collection", def)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", viewmodel.ErrCollectionRequired
	}
	return name, nil
}
