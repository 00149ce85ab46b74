package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"BriteShop/internal/gateway"
	"BriteShop/pkg/kit"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the list and catalog over a local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}

			h, err := gateway.NewHandler(gateway.Deps{
				Lists:   a.lists,
				Catalog: a.catalog,
				Storage: a.storage,
				Profile: a.profile,
			}, gateway.HTTPDeps{
				Log:            a.log,
				Service:        service,
				Registry:       a.registry,
				MetricsEnabled: a.cfg.Metrics.Enabled,
				MetricsToken:   a.cfg.Metrics.Token,
			})
			if err != nil {
				return err
			}

			if err := kit.RunHTTPServer(cmd.Context(), addr, h, a.log); err != nil {
				a.log.Error("http server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
