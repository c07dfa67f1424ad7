package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/service"
)

// ReplenishWorker periodically restores submission credits. Each sweep adds
// one credit to users below the cap whose balance has been idle past the
// replenish interval; no notifications are produced.
type ReplenishWorker struct {
	credits  *service.CreditService
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
}

// NewReplenishWorker builds the worker with a cron schedule expression.
func NewReplenishWorker(credits *service.CreditService, logger *zap.Logger, schedule string) *ReplenishWorker {
	return &ReplenishWorker{
		credits:  credits,
		logger:   logger,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules the sweep and runs the cron loop in the background.
func (w *ReplenishWorker) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		replenished, err := w.credits.ReplenishAll(ctx)
		if err != nil {
			w.logger.Error("credit replenish sweep failed", zap.Error(err))
			return
		}
		if replenished > 0 {
			w.logger.Info("credit replenish sweep", zap.Int("replenished", replenished))
		}
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running sweep to finish.
func (w *ReplenishWorker) Stop() {
	<-w.cron.Stop().Done()
}
