package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// HoldReleaser releases one booking's hold if it is still releasable.
type HoldReleaser interface {
	Release(ctx context.Context, bookingID string) (bool, error)
}

type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log *zap.Logger
}

func NewWorker(opt asynq.RedisClientOpt, releaser HoldReleaser, log *zap.Logger) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReleaseHold, handleReleaseHold(releaser, log))

	return &Worker{srv: srv, mux: mux, log: log}
}

func (w *Worker) Start() error {
	w.log.Info("hold release worker starting")
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func handleReleaseHold(releaser HoldReleaser, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p releaseHoldPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TypeReleaseHold, err, asynq.SkipRetry)
		}

		released, err := releaser.Release(ctx, p.BookingID)
		if err != nil {
			log.Warn("hold release failed", zap.String("booking_id", p.BookingID), zap.Error(err))
			return err
		}
		if released {
			log.Info("hold released", zap.String("booking_id", p.BookingID))
		}
		return nil
	}
}
