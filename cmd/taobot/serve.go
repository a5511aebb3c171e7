package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	taohttp "github.com/taobot/taobot/http"
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API on a local port",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.HTTP.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			adapter := taohttp.NewAdapter(taohttp.ApplicationFactory(cfg))
			return taohttp.StartServer(ctx, adapter, cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config, PORT, or 3000)")
	return cmd
}
