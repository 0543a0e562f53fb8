package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"aegis/internal/chat"
	"aegis/internal/config"
	"aegis/internal/controller"
	"aegis/internal/facade"
	"aegis/internal/logging"
	"aegis/internal/logstore"
	"aegis/internal/tui"
)

func newTermCmd(opts *rootOptions) *cobra.Command {
	var (
		server    string
		token     string
		embedded  bool
		ephemeral bool
		lineMode  bool
	)
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Open the Aegis terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			interactive := !lineMode && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))

			logOpts := cfg.Log.Options()
			logOpts.Stdout = false
			// stdout belongs to the client; without a log file, drop logs
			var logger *logging.Logger
			if logOpts.File == "" {
				logger = logging.Discard()
			} else {
				logger = logging.New(logOpts)
			}
			defer logger.Close()

			storeKind, storePath := cfg.Store.Kind, cfg.Store.Path
			if ephemeral {
				storeKind = config.StoreMemory
			}
			store, err := logstore.Open(storeKind, storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			var backend controller.Backend
			if embedded {
				backend = controller.NewLocal(facade.New(facade.Options{Agent: cfg.Agent.DisplayName(), Logger: logger}))
			} else {
				if server == "" {
					server = cfg.ServerURL
				}
				backend = controller.NewClient(server, 10*time.Second).WithToken(token)
			}

			ctrl := controller.New(controller.Options{
				Backend: backend,
				Store:   store,
				OpenChat: func() (chat.Session, error) {
					return chat.Open(cfg.Chat, logger)
				},
				Logger:       logger,
				PollInterval: cfg.PollInterval,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ctrl.Initialize(ctx)
			defer ctrl.Close()

			if !interactive {
				return tui.RunLine(ctx, ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return tui.Run(ctx, ctrl, cfg.Chat.Model)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "base URL of a running aegis serve (default from config)")
	cmd.Flags().StringVar(&token, "token", os.Getenv("AEGIS_TOKEN"), "bearer token when API auth is enabled")
	cmd.Flags().BoolVar(&embedded, "embedded", false, "use an in-process facade instead of a server")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep the log in memory only")
	cmd.Flags().BoolVar(&lineMode, "line", false, "force line mode even on a terminal")
	return cmd
}
