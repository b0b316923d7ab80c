package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fundwise/cmd/fundwise/app"
	"fundwise/cmd/fundwise/ui"
	"fundwise/internal/api"
	"fundwise/internal/config"
	"fundwise/internal/logging"
	"fundwise/internal/session"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		verbose   bool
	)

	root := &cobra.Command{
		Use:   "fundwise",
		Short: "Terminal client for the mutual fund recommendation service",
		Long: `fundwise is a terminal client for the mutual fund recommendation
service. It signs you in, then recommends funds for a fresh budget or
analyzes an existing holding against its peers.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.DefaultPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}
			if verbose {
				cfg.Verbose = true
			}

			log, err := logging.New(cfg.LogDir(), cfg.Verbose)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer log.Sync() //nolint:errcheck

			sessions, err := session.Open(cfg.TokenPath())
			if err != nil {
				// A corrupt session file means re-login, not failure.
				log.Warn("discarding unreadable session file", zap.Error(err))
			}

			client := api.New(cfg.ServerURL, sessions, log)
			model := app.New(client, sessions, log, ui.DefaultStyles())

			log.Info("starting",
				zap.String("version", version),
				zap.String("server", cfg.ServerURL))

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run ui: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "", "recommendation service base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newLogoutCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.DefaultPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// A corrupt session file still gets removed; only a clean
			// "nothing stored" skips the message.
			sessions, openErr := session.Open(cfg.TokenPath())
			if sessions == nil {
				return fmt.Errorf("open session: %w", openErr)
			}
			hadSession := openErr != nil || sessions.IsAuthenticated()
			if err := sessions.Clear(); err != nil {
				return fmt.Errorf("remove session: %w", err)
			}
			if !hadSession {
				fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fundwise version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fundwise %s\n", version)
		},
	}
}
