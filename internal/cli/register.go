package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/dombot/internal/api/request"
	"github.com/mcoot/dombot/internal/api/response"
)

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <alias> <user-id> <nation...>",
		Short: "Claim a nation for a player",
		Long:  "Claim the nation whose name starts with the given text. Words after the user id are joined with spaces.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.RegisterRequest{
				UserID: args[1],
				Nation: strings.Join(args[2:], " "),
			}
			var result response.Registration

			if err := client.Post(cmd.Context(), serverPath(args[0])+"/registrations", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
