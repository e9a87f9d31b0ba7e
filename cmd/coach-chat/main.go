// Command coach-chat is a terminal client for the coach API.
//
// Running it without a subcommand opens an interactive chat. Ctrl-C stops
// a reply that is still streaming; pressed while idle it quits.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/luminary-backend/internal/auth"
	"github.com/heartmarshall/luminary-backend/pkg/coachclient"
)

type options struct {
	baseURL        string
	token          string
	conversationID string
	title          string
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "coach-chat",
		Short:         "Chat with the Luminary coach",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			convID, err := opts.conversation(cmd, client)
			if err != nil {
				return err
			}
			r := &repl{in: stdin, out: stdout, errOut: stderr}
			return r.run(cmd.Context(), client, convID)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("COACH_URL", "http://localhost:8080"), "coach API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("COACH_TOKEN"), "bearer access token")
	root.Flags().StringVarP(&opts.conversationID, "conversation", "c", "", "continue an existing conversation")
	root.Flags().StringVar(&opts.title, "title", "", "title for a new conversation")

	root.AddCommand(newListCmd(opts), newNewCmd(opts), newHistoryCmd(opts), newTokenCmd())

	return root
}

func newListCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			convs, err := client.ListConversations(cmd.Context(), limit, 0)
			if err != nil {
				return err
			}
			for _, c := range convs {
				title := "(untitled)"
				if c.Title != nil {
					title = *c.Title
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %3d msgs  %s\n", c.ID, c.MessageCount, title)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum conversations to show")
	return cmd
}

func newNewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "new [title]",
		Short: "Create a conversation and print its id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			var title string
			if len(args) == 1 {
				title = args[0]
			}
			conv, err := client.CreateConversation(cmd.Context(), title)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), conv.ID)
			return nil
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "Print the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid conversation id: %w", err)
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			msgs, err := client.ListMessages(cmd.Context(), convID, limit, 0)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", m.CreatedAt.Local().Format(time.DateTime), m.Role, m.Content)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum messages to show")
	return cmd
}

// newTokenCmd mints an access token signed with a shared secret, for local
// servers configured with the same AUTH_JWT_SECRET.
func newTokenCmd() *cobra.Command {
	var (
		secret string
		issuer string
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or AUTH_JWT_SECRET is required")
			}
			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid user id: %w", err)
				}
				id = parsed
			}
			token, err := auth.NewVerifier(secret, issuer, "authenticated").GenerateAccessToken(id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("AUTH_JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&issuer, "issuer", os.Getenv("AUTH_JWT_ISSUER"), "JWT issuer")
	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func (o *options) client() (*coachclient.Client, error) {
	if o.token == "" {
		return nil, fmt.Errorf("--token or COACH_TOKEN is required")
	}
	return coachclient.New(o.baseURL, o.token, nil), nil
}

// conversation resolves --conversation or creates a new one.
func (o *options) conversation(cmd *cobra.Command, client *coachclient.Client) (uuid.UUID, error) {
	if o.conversationID != "" {
		id, err := uuid.Parse(o.conversationID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid conversation id: %w", err)
		}
		return id, nil
	}
	conv, err := client.CreateConversation(cmd.Context(), o.title)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv.ID, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
