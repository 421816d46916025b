package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/dombot/internal/api/request"
	"github.com/mcoot/dombot/internal/api/response"
)

func newSayCmd() *cobra.Command {
	var (
		author  string
		channel string
	)

	cmd := &cobra.Command{
		Use:   "say <message...>",
		Short: "Send a chat message to the bot and print its reply",
		Example: `  dombot say --author 100 --channel early '!register arco'
  dombot say --author 1 --channel general '!lobby ea 4 early'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CommandRequest{
				AuthorID: author,
				Channel:  channel,
				Content:  strings.Join(args, " "),
			}
			var result response.CommandReply

			if err := client.Post(cmd.Context(), "/api/v1/commands", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Discord user id of the sender")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel the message was sent in")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}
