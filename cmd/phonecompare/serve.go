package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/phonecompare/internal/bootstrap"
	"github.com/at-ishikawa/phonecompare/internal/server"
)

func newServeCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog to browser clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				s.cfg.Server.Port = port
			}

			b := bootstrap.New()
			b.AddCloser("session", s)
			srv := server.New(s.cfg.Server, server.NewCatalogHandler(s.app))
			b.AddShutdownHook("http server", srv.Shutdown)

			return b.Run(cmd.Context(), func(ctx context.Context) error {
				slog.Info("starting server", "addr", srv.Addr, "allowed_origins", s.cfg.Server.CORS.AllowedOrigins)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("srv.ListenAndServe() > %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on, the configured port by default")
	return cmd
}
