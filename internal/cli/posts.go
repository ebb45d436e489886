package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

func newPostsCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"post"},
		Short:   "Browse and publish announcements",
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List announcements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && !alumnisdk.IsCategory(category) {
				return usageErrorf("unknown category %q", category)
			}
			posts, err := st.session.ListPosts(cmd.Context(), category)
			if err != nil {
				return err
			}
			return st.print.result(posts, func() { st.print.table(postHeaders, postRows(posts)) })
		},
	}
	list.Flags().StringVar(&category, "category", "", "Filter by job, internship, training, event or news")

	show := &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show an announcement with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := st.session.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return st.print.result(p, func() {
				st.print.fields(
					"ID", p.ID,
					"Title", plain(p.Title, 0),
					"Category", p.Category,
					"Author", p.Author.Name,
					"Created", formatTime(p.CreatedAt),
				)
				fmt.Fprintf(st.out, "\n%s\n", plain(p.Content, 0))
				if len(p.Comments) > 0 {
					fmt.Fprintln(st.out)
					st.print.table(commentHeaders, commentRows(p.Comments))
				}
			})
		},
	}

	var in alumnisdk.PostInput
	var contentFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish an announcement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				data, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("failed to read content: %w", err)
				}
				in.Content = string(data)
			}
			p, err := st.session.CreatePost(cmd.Context(), in)
			if err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Published %s", p.ID), p)
		},
	}
	create.Flags().StringVar(&in.Title, "title", "", "Title")
	create.Flags().StringVar(&in.Category, "category", alumnisdk.CategoryNews, "Category")
	create.Flags().StringVar(&in.Content, "content", "", "Body, HTML allowed")
	create.Flags().StringVar(&contentFile, "content-file", "", "Read the body from a file")
	create.Flags().StringVar(&in.TopicID, "topic", "", "File under a forum topic")

	del := &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete one of your announcements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.session.DeletePost(cmd.Context(), args[0]); err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Deleted %s", args[0]), map[string]string{"id": args[0]})
		},
	}

	cmd.AddCommand(list, show, create, del)
	return cmd
}

func newCommentsCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Read and write comments on announcements",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <post-id>",
		Short: "List comments on an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := st.session.ListComments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return st.print.result(comments, func() { st.print.table(commentHeaders, commentRows(comments)) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <post-id> <text>...",
		Short: "Comment on an announcement",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := st.session.CreateComment(cmd.Context(), args[0], alumnisdk.CommentInput{
				Text: strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Commented %s", c.ID), c)
		},
	})

	return cmd
}

var commentHeaders = []string{"ID", "AUTHOR", "COMMENT", "CREATED"}

func commentRows(comments []alumnisdk.Comment) [][]string {
	out := make([][]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, []string{c.ID, c.Author.Name, plain(c.Text, 64), formatTime(c.CreatedAt)})
	}
	return out
}
