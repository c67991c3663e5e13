package cmd

import (
	"context"

	"creditmarket/worker"
	"creditmarket/worker/accrual"
	"creditmarket/worker/premium"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "credit market job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		a := provideApp()
		defer a.Close()

		if err := runWorkers(ctx, a); err != nil {
			log.WithError(err).Errorln("worker exit")
		}
	},
}

func runWorkers(ctx context.Context, a *app) error {
	accrualWorker, err := accrual.New(cfg.App.Location, cfg.Worker.AccrualSpec, a.store, a.ledger)
	if err != nil {
		return err
	}

	premiumWorker, err := premium.New(cfg.App.Location, cfg.Worker.PremiumSpec, cfg.Worker.PremiumBatch, a.store, a.ledger, a.checkpoints)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, job := range []worker.IJob{accrualWorker, premiumWorker} {
		job := job
		g.Go(func() error {
			return worker.Serve(ctx, job)
		})
	}

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
