package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

const TypeReleaseHold = "booking:release_hold"

type releaseHoldPayload struct {
	BookingID string `json:"booking_id"`
}

func NewReleaseHoldTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(releaseHoldPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReleaseHold, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("hold:" + bookingID),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// AsynqEnqueuer schedules one release per booking at its hold deadline.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(opt asynq.RedisClientOpt) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: asynq.NewClient(opt)}
}

func (e *AsynqEnqueuer) ScheduleHoldRelease(ctx context.Context, bookingID string, at time.Time) error {
	task, opts, err := NewReleaseHoldTask(bookingID, at)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}

// NopEnqueuer leaves expired holds to the sweeper.
type NopEnqueuer struct{}

func (NopEnqueuer) ScheduleHoldRelease(context.Context, string, time.Time) error { return nil }
