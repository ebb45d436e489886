package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTopicsCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topics",
		Aliases: []string{"topic", "forum"},
		Short:   "Browse forum topics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List forum topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics, err := st.session.ListTopics(cmd.Context())
			if err != nil {
				return err
			}
			return st.print.result(topics, func() {
				rows := make([][]string, 0, len(topics))
				for _, t := range topics {
					rows = append(rows, []string{t.ID, t.Slug, t.Title, fmt.Sprint(t.PostCount)})
				}
				st.print.table([]string{"ID", "SLUG", "TITLE", "POSTS"}, rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <topic-id|slug>",
		Short: "Show a topic and its posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := st.session.GetTopic(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return st.print.result(t, func() {
				st.print.fields("ID", t.ID, "Slug", t.Slug, "Title", t.Title, "About", t.Description)
				if len(t.Posts) > 0 {
					fmt.Fprintln(st.out)
					st.print.table(postHeaders, postRows(t.Posts))
				}
			})
		},
	})

	return cmd
}

func newSearchCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search people, announcements and topics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.session.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return st.print.result(res, func() {
				rows := make([][]string, 0, len(res.Users)+len(res.Posts)+len(res.Topics))
				for _, u := range res.Users {
					rows = append(rows, []string{"person", u.ID, u.FullName})
				}
				for _, p := range res.Posts {
					rows = append(rows, []string{"post", p.ID, plain(p.Title, 64)})
				}
				for _, t := range res.Topics {
					rows = append(rows, []string{"topic", t.ID, t.Title})
				}
				if len(rows) == 0 {
					fmt.Fprintln(st.out, "No matches")
					return
				}
				st.print.table([]string{"KIND", "ID", "NAME"}, rows)
			})
		},
	}
}

func newMessagesCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"chat"},
		Short:   "Read and send chat messages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <chat-id>",
		Short: "Show a chat's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := st.session.ListMessages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return st.print.result(msgs, func() {
				rows := make([][]string, 0, len(msgs))
				for _, m := range msgs {
					rows = append(rows, []string{formatTime(m.CreatedAt), m.Author.Name, m.Text})
				}
				st.print.table([]string{"SENT", "FROM", "MESSAGE"}, rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "send <chat-id> <text>...",
		Short: "Send a chat message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := st.session.SendMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Sent %s", m.ID), m)
		},
	})

	return cmd
}
