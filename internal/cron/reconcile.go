package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paybridge/internal/provider"
	"paybridge/internal/repository"
)

// Scheduler runs the payment reconciliation job: orders still pending an
// authorization get their gateway-reported status fetched and applied.
// Covers notifications the webhook never delivered.
type Scheduler struct {
	cron     *cron.Cron
	orders   *repository.OrderRepository
	provider *provider.Provider
	logger   *zap.Logger
	schedule string
}

// New creates a scheduler. The schedule is a standard cron expression.
func New(orders *repository.OrderRepository, prov *provider.Provider, logger *zap.Logger, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		orders:   orders,
		provider: prov,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers and starts the reconciliation job.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.reconcile); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Reconciliation scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and returns a context that is done once
// running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pending, err := s.orders.FindPending(50)
	if err != nil {
		s.logger.Error("reconcile: failed to list pending orders", zap.Error(err))
		return
	}

	for i := range pending {
		order := &pending[i]
		view := order.View()
		if view.Properties[provider.PropPaymentLinkID] == "" {
			continue
		}

		result := s.provider.FetchPaymentStatus(ctx, view)
		if !result.Applied || result.Status == view.Transaction.Status {
			continue
		}

		order.ApplyTransaction(result.TransactionID, result.Status)
		order.MergeProperties(result.MetaData)
		if err := s.orders.Save(order); err != nil {
			s.logger.Error("reconcile: failed to persist order",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
			continue
		}

		s.logger.Info("reconcile: payment status updated",
			zap.String("order_number", order.OrderNumber),
			zap.String("status", string(result.Status)))
	}
}
