package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lending/handler"
	"lending/handler/hc"
	"lending/pkg/metrics"
	"lending/worker/keeper"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lending api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := provideApp()
		defer a.db.Close()

		if err := bootstrapAssets(ctx, a.engine); err != nil {
			logrus.WithError(err).Fatal("bootstrap assets failed")
		}

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version, a.engine))
		}

		{
			//metrics
			mux.Handle("/metrics", metrics.Handler())
		}

		{
			//restful api
			svr := handler.New(a.engine, a.registry, a.store.Transactions())
			mux.Mount("/api", http.StripPrefix("/api", svr.HandleRestAPI()))
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		g, ctx := errgroup.WithContext(ctx)

		if withKeeper, _ := cmd.Flags().GetBool("keeper"); withKeeper {
			delay, _ := cmd.Flags().GetDuration("keeper-delay")
			w := keeper.New(a.engine, a.registry, keeper.Config{Delay: delay})
			g.Go(func() error {
				if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
					return err
				}

				return nil
			})
		}

		g.Go(func() error {
			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			return nil
		})

		g.Go(func() error {
			logrus.Infoln("serve at", addr)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}

			return nil
		})

		if err := g.Wait(); err != nil {
			logrus.WithError(err).Fatal("server aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("keeper", false, "run the keeper worker in process")
	serverCmd.Flags().Duration("keeper-delay", 30*time.Second, "keeper round delay")
}
