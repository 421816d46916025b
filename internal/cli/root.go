package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() (*cobra.Command, error) {
	var err error
	cfg, err = DefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	rootCmd := &cobra.Command{
		Use:   "dombot",
		Short: "CLI tool for the dombot registration API",
		Long: `dombot is a CLI tool for interacting with the dombot JSON API.

It manages game servers and lobbies, registers players for nations and can
send chat commands exactly as the chat gateway would.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cfg.Output {
			case outputText, outputJSON:
			default:
				return fmt.Errorf("unknown output format %q", cfg.Output)
			}
			client = NewClient(cfg.ServerURL, cfg.Token)
			if cfg.Verbose {
				client.SetTrace(cmd.ErrOrStderr())
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: DOMBOT_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "API token (env: DOMBOT_API_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newServersCmd())
	rootCmd.AddCommand(newLobbyCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newSayCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd, nil
}

// Execute runs the root command
func Execute() {
	rootCmd, err := NewRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
