package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lending/worker"
	"lending/worker/keeper"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var keeperCmd = &cobra.Command{
	Use:   "keeper",
	Short: "accrue every pool periodically",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.FromContext(ctx).WithField("cmd", "keeper")
		ctx = logger.WithContext(ctx, log)

		a := provideApp()
		defer a.db.Close()

		delay, _ := cmd.Flags().GetDuration("delay")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		var w worker.Worker = keeper.New(a.engine, a.registry, keeper.Config{
			Delay:       delay,
			Concurrency: concurrency,
		})

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Fatal("keeper aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(keeperCmd)
	keeperCmd.Flags().Duration("delay", 30*time.Second, "delay between two rounds")
	keeperCmd.Flags().Int("concurrency", 8, "pool metric refresh concurrency")
}
