package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var flagWorkerOnce bool

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background worker without the HTTP server",
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().BoolVar(&flagWorkerOnce, "once", false, "Run a single pass and exit")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(_ *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagWorkerOnce {
		a.worker.Run(ctx, a.cfg.WorkerInterval)
		return nil
	}

	p, err := a.worker.RunOnce(ctx)
	slog.Info("Worker pass finished",
		"executed", p.Recurring.Executed,
		"skipped", p.Recurring.Skipped,
		"overdue", p.Overdue,
		"notified", p.Notified,
		"expired", p.Expired,
	)
	return err
}
