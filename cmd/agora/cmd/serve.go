package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/agora/internal/adapters/store"
	"github.com/hugo-lorenzo-mato/agora/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the persisted results over a read-only HTTP API",
	RunE:  serveResults,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8321)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serveResults(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := store.NewResultStore(cfg.Results.Backend, cfg.Results.Path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.CloseResultStore(results); closeErr != nil {
			log.Warn("closing result store", "error", closeErr)
		}
	}()

	return api.New(cfg.Server.Addr, results, log).Start(ctx)
}
