package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/viewmodel"
)

func newForumCmd() *cobra.Command {
	list := withApp(func(ctx context.Context, a *app, _ []string) error {
		vm := viewmodel.NewForum(a.client)
		if err := vm.Refresh(ctx); err != nil {
			return a.fail(err)
		}
		a.out.Posts(vm.State().Posts)
		return nil
	})

	cmd := &cobra.Command{
		Use:   "forum",
		Short: "Read and write community forum posts",
		Args:  cobra.NoArgs,
		RunE:  list,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "posts",
		Short: "List forum posts",
		Args:  cobra.NoArgs,
		RunE:  list,
	})
	cmd.AddCommand(newForumPostCmd())
	cmd.AddCommand(newForumShowCmd())
	cmd.AddCommand(newForumCommentCmd())
	return cmd
}

func newForumPostCmd() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Start a new discussion",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			var err error
			if title == "" {
				if title, err = a.prompt.Line("Title", ""); err != nil {
					return err
				}
			}
			if content == "" {
				if content, err = a.prompt.Line("Content", ""); err != nil {
					return err
				}
			}
			vm := viewmodel.NewForum(a.client)
			if err := vm.CreatePost(ctx, title, content); err != nil {
				return a.fail(err)
			}
			st := vm.State()
			a.out.Success(st.Notice)
			a.out.Posts(st.Posts)
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&content, "content", "", "post body")
	return cmd
}

func newForumShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show POST_ID",
		Short: "Show a post and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			vm := viewmodel.NewPostThread(a.client)
			if err := vm.Load(ctx, api.ID(args[0])); err != nil {
				return a.fail(err)
			}
			a.out.Thread(vm.State())
			return nil
		}),
	}
}

func newForumCommentCmd() *cobra.Command {
	var replyTo string
	cmd := &cobra.Command{
		Use:   "comment POST_ID TEXT...",
		Short: "Comment on a post, or reply to a comment with --reply-to",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			vm := viewmodel.NewPostThread(a.client)
			if err := vm.Load(ctx, api.ID(args[0])); err != nil {
				return a.fail(err)
			}
			text := joinArgs(args[1:])

			var err error
			if replyTo != "" {
				err = vm.Reply(ctx, api.ID(replyTo), text)
			} else {
				err = vm.Comment(ctx, text)
			}
			if err != nil {
				return a.fail(err)
			}
			st := vm.State()
			a.out.Success(st.Notice)
			a.out.Thread(st)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&replyTo, "reply-to", "r", "", "comment id to reply to")
	return cmd
}
