package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/planterm/planterm/internal/api"
	"github.com/planterm/planterm/internal/config"
	"github.com/planterm/planterm/internal/logging"
	"github.com/planterm/planterm/internal/storage"
	"github.com/planterm/planterm/internal/store"
	"github.com/planterm/planterm/internal/ui"
)

// set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig string
	flagServer string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "planterm",
		Short:   "Terminal client for the planner backend",
		Long:    "planterm is a terminal client for a personal task and calendar manager with AI-assisted scheduling.",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, st, err := bootstrap()
			if err != nil {
				return err
			}
			defer st.Close()
			defer logger.Sync()

			return ui.Run(cfg, logger, st)
		},
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	root.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "backend base URL, overrides config")

	root.AddCommand(healthCmd())
	root.AddCommand(loginCmd())
	root.AddCommand(logoutCmd())

	return root
}

// bootstrap loads config and opens the logger and local store. The
// --server flag wins over both file and environment.
func bootstrap() (*config.Config, *zap.Logger, *storage.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	if flagServer != "" {
		cfg.Server.BaseURL = flagServer
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open log: %w", err)
	}

	st, err := storage.Open(cfg.Data.Dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}

	return cfg, logger, st, nil
}

// newClient builds a headless API client for subcommands. Notifications
// go to stderr instead of a toast.
func newClient(cfg *config.Config, logger *zap.Logger, st *storage.Store) *api.Client {
	return api.NewClient(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithLogger(logger),
		api.WithTokenSource(st.Token),
		api.WithNotifier(api.NotifierFunc(func(message string) {
			fmt.Fprintln(os.Stderr, message)
		})),
	)
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend reachability and session validity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, st, err := bootstrap()
			if err != nil {
				return err
			}
			defer st.Close()
			defer logger.Sync()

			client := api.NewClient(cfg.Server.BaseURL,
				api.WithTimeout(cfg.Server.Timeout),
				api.WithLogger(logger),
				api.WithTokenSource(st.Token),
			)

			user, err := client.CurrentUser(cmd.Context())
			if err == nil {
				fmt.Printf("ok: %s, logged in as %s\n", cfg.Server.BaseURL, user.Username)
				return nil
			}

			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.Status > 0 {
				fmt.Printf("ok: %s reachable, no valid session (HTTP %d)\n", cfg.Server.BaseURL, apiErr.Status)
				return nil
			}
			return fmt.Errorf("%s unreachable: %w", cfg.Server.BaseURL, err)
		},
	}
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session for the TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, st, err := bootstrap()
			if err != nil {
				return err
			}
			defer st.Close()
			defer logger.Sync()

			reader := bufio.NewReader(os.Stdin)
			if username == "" {
				fmt.Print("Username or email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			session := store.NewSessionStore(newClient(cfg, logger, st), st, logger)
			res := session.Login(context.Background(), username, password)
			if !res.OK {
				return errors.New(res.Message)
			}
			fmt.Printf("logged in as %s\n", session.User().Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the server session and clear local credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, st, err := bootstrap()
			if err != nil {
				return err
			}
			defer st.Close()
			defer logger.Sync()

			session := store.NewSessionStore(newClient(cfg, logger, st), st, logger)
			session.CheckAuth()
			if !session.LoggedIn() {
				fmt.Println("no saved session")
				return nil
			}
			session.Logout(context.Background())
			fmt.Println("logged out")
			return nil
		},
	}
}
