package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soyeahso/telcoassist/internal/gateway"
	"github.com/soyeahso/telcoassist/internal/logging"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			logger := logging.New(logging.Options{
				Level: cfg.Logging.Level,
				File:  cfg.Logging.File,
				JSON:  cfg.Logging.JSON,
			})

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, cleanup, err := buildBot(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := gateway.New(cfg.Server, b, logger)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan)")

	return cmd
}
