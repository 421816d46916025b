package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/dombot/internal/api/request"
	"github.com/mcoot/dombot/internal/api/response"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby management commands",
	}

	cmd.AddCommand(newLobbyCreateCmd())

	return cmd
}

func newLobbyCreateCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "create <alias> <era> <players>",
		Short: "Open a lobby for an era (EA, MA or LA)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}
			req := request.CreateLobbyRequest{
				Alias:       args[0],
				OwnerID:     owner,
				Era:         args[1],
				PlayerCount: players,
			}
			var result response.Server

			if err := client.Post(cmd.Context(), "/api/v1/lobbies", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Discord user id of the lobby owner")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
