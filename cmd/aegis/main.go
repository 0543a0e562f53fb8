package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"aegis/internal/config"
	"aegis/internal/controller"
	"aegis/internal/logging"
	"aegis/internal/middleware"
	"aegis/internal/version"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "aegis",
		Short:         "Aegis engineering agent: backend facade and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to aegis.yaml")

	root.AddCommand(
		newServeCmd(opts),
		newTermCmd(opts),
		newExecCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port      int
		staticDir string
		dev       bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP facade and host the web bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("static-dir") {
				cfg.StaticDir = staticDir
			}
			if dev {
				cfg.Mode = config.ModeDevelopment
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if os.Getenv("GIN_MODE") == "" {
				gin.SetMode(gin.ReleaseMode)
			}

			logger := logging.New(cfg.Log.Options())
			defer logger.Close()

			app, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config, 3000)")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "serve the web bundle from this directory instead of the embedded one")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode: do not host the web bundle")
	return cmd
}

func newExecCmd(opts *rootOptions) *cobra.Command {
	var (
		server string
		token  string
	)
	cmd := &cobra.Command{
		Use:   "exec <command...>",
		Short: "Run one command through POST /api/execute",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = opts.cfg.ServerURL
			}
			client := controller.NewClient(server, 10*time.Second).WithToken(token)
			res, err := client.Execute(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "base URL of a running aegis serve")
	cmd.Flags().StringVar(&token, "token", os.Getenv("AEGIS_TOKEN"), "bearer token when API auth is enabled")
	return cmd
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API bearer token from the configured JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := middleware.NewAuthService(opts.cfg.Auth.JWTSecret, opts.cfg.Auth.TokenTTL)
			token, err := auth.GenerateToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "aegis-cli", "token subject")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "aegis %s (%s)\n", info.Version, info.Go)
		},
	}
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
