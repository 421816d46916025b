package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/dombot/internal/api/request"
	"github.com/mcoot/dombot/internal/api/response"
)

func newServersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Game server commands",
	}

	cmd.AddCommand(newServersListCmd())
	cmd.AddCommand(newServersGetCmd())
	cmd.AddCommand(newServersAddCmd())
	cmd.AddCommand(newServersStartCmd())

	return cmd
}

func newServersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ServerList

			if err := client.Get(cmd.Context(), "/api/v1/servers", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newServersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <alias>",
		Short: "Show a server and its registered nations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ServerDetails

			if err := client.Get(cmd.Context(), serverPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newServersAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <alias> <host:port>",
		Short: "Add a game that is already running",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.AddServerRequest{Alias: args[0], Address: args[1]}
			var result response.Server

			if err := client.Post(cmd.Context(), "/api/v1/servers", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newServersStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <alias> <host:port>",
		Short: "Start a lobby at the given game address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.StartServerRequest{Address: args[1]}
			var result response.Server

			if err := client.Post(cmd.Context(), serverPath(args[0])+"/start", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func serverPath(alias string) string {
	return fmt.Sprintf("/api/v1/servers/%s", url.PathEscape(alias))
}
