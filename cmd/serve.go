package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"mm1calc/internal/logging"
	"mm1calc/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator over HTTP (JSON API, HTML form, metrics)",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{Addr: viper.GetString("addr")}, log)
		if err := srv.Run(ctx); err != nil {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error or dev")

	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("log_level", serveCmd.Flags().Lookup("log-level"))
}
