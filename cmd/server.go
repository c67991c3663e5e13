package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"creditmarket/handler"

	"github.com/drone/signal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run credit market api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a := provideApp()
		defer a.Close()

		s := handler.New(a.ledger, a.store, a.positions, a.session, rootCmd.Version)

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: s.Handler(),
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		// the in memory ledger lives in this process, so its workers do too
		if withWorker, _ := cmd.Flags().GetBool("with-worker"); withWorker || cfg.App.Memory {
			go func() {
				if err := runWorkers(ctx, a); err != nil {
					logrus.WithError(err).Error("workers aborted")
				}
			}()
		}

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("with-worker", false, "run the accrual and premium workers in process")
}
